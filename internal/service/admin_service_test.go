package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/horarios-api/internal/dto"
	"github.com/noah-isme/horarios-api/internal/models"
	appErrors "github.com/noah-isme/horarios-api/pkg/errors"
)

type personFinderStub struct {
	persons map[string]*models.Person
}

func (p *personFinderStub) FindByEmail(ctx context.Context, email string) (*models.Person, error) {
	person, ok := p.persons[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return person, nil
}

func newAdminFixture(t *testing.T) (*AdminService, *auditRecorderStub) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	hashed := string(hash)
	adminEmail := "admin@fium.edu"
	profEmail := "juan@fium.edu"

	persons := &personFinderStub{persons: map[string]*models.Person{
		adminEmail: {ID: "900", Name: "Admin", Email: &adminEmail, Role: models.RoleAdmin, PasswordHash: &hashed},
		profEmail:  {ID: "1", Name: "Juan", Email: &profEmail, Role: models.RoleProfessor, PasswordHash: &hashed},
	}}
	audit := &auditRecorderStub{}
	svc := NewAdminService(persons, newMemoryStore(), NewAuditService(audit, nil), nil, nil, AdminConfig{TokenSecret: "admin-secret", TokenTTL: time.Hour})
	return svc, audit
}

func TestAdminLogin(t *testing.T) {
	svc, audit := newAdminFixture(t)

	resp, err := svc.Login(context.Background(), dto.AdminLoginRequest{Email: "admin@fium.edu", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, "Admin", resp.Name)
	assert.Equal(t, []string{models.AuditActionAdminLogin}, audit.actions())

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "900", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "admin@fium.edu", claims.Email)
}

func TestAdminLoginFailures(t *testing.T) {
	svc, audit := newAdminFixture(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, dto.AdminLoginRequest{Email: "admin@fium.edu", Password: "wrong"})
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = svc.Login(ctx, dto.AdminLoginRequest{Email: "ghost@fium.edu", Password: "secret123"})
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = svc.Login(ctx, dto.AdminLoginRequest{Email: "juan@fium.edu", Password: "secret123"})
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))

	_, err = svc.Login(ctx, dto.AdminLoginRequest{Email: "not-an-email", Password: "x"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	assert.Empty(t, audit.actions())
}

func TestAdminValidateTokenRejectsExpiredAndForeign(t *testing.T) {
	svc, _ := newAdminFixture(t)
	resp, err := svc.Login(context.Background(), dto.AdminLoginRequest{Email: "admin@fium.edu", Password: "secret123"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ValidateToken(resp.AccessToken)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
	svc.now = time.Now

	other := NewAdminService(&personFinderStub{}, nil, nil, nil, nil, AdminConfig{TokenSecret: "other"})
	_, err = other.ValidateToken(resp.AccessToken)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}

func TestAdminListProfessors(t *testing.T) {
	store := newMemoryStore()
	store.professors["2"] = &models.Professor{ID: "2", ShortName: "ana", FullName: "Ana Diaz"}
	_, prefs, _ := newTestServices(store, nil)
	require.NoError(t, prefs.Submit(context.Background(), "1", submitRequest(t, map[string]int{"1": 2, "2": 1}, nil), RequestMeta{}))

	svc := NewAdminService(&personFinderStub{}, store, nil, nil, nil, AdminConfig{TokenSecret: "s"})
	items, err := svc.ListProfessors(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "1", items[0].ID)
	assert.True(t, items[0].Submitted)
	assert.Equal(t, 2, items[0].PriorityCount)
	assert.False(t, items[1].Submitted)
	assert.Zero(t, items[1].PriorityCount)
}
