package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/horarios-api/internal/dto"
	"github.com/noah-isme/horarios-api/internal/models"
	appErrors "github.com/noah-isme/horarios-api/pkg/errors"
)

type personFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.Person, error)
}

type professorProgressLister interface {
	ListWithProgress(ctx context.Context) ([]models.ProfessorProgress, error)
}

// AdminConfig configures administrator access tokens.
type AdminConfig struct {
	TokenSecret string
	TokenTTL    time.Duration
	Issuer      string
}

// AdminService authenticates administrators and serves the progress listing.
type AdminService struct {
	persons    personFinder
	professors professorProgressLister
	audit      *AuditService
	validator  *validator.Validate
	logger     *zap.Logger
	config     AdminConfig
	now        func() time.Time
}

// NewAdminService constructs the administrator login service.
func NewAdminService(persons personFinder, professors professorProgressLister, audit *AuditService, validate *validator.Validate, logger *zap.Logger, config AdminConfig) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.TokenTTL <= 0 {
		config.TokenTTL = time.Hour
	}
	if config.Issuer == "" {
		config.Issuer = "horarios-api"
	}
	return &AdminService{persons: persons, professors: professors, audit: audit, validator: validate, logger: logger, config: config, now: time.Now}
}

// Login checks bcrypt credentials and issues an admin access token.
func (s *AdminService) Login(ctx context.Context, req dto.AdminLoginRequest) (*dto.AdminLoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	person, err := s.persons.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch account")
	}
	if person.PasswordHash == nil || bcrypt.CompareHashAndPassword([]byte(*person.PasswordHash), []byte(req.Password)) != nil {
		return nil, appErrors.ErrInvalidCredentials
	}
	if person.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "administrator role required")
	}

	issuedAt := s.now().UTC()
	email := ""
	if person.Email != nil {
		email = *person.Email
	}
	claims := &models.AdminClaims{
		UserID: person.ID,
		Role:   person.Role,
		Email:  email,
		Name:   person.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   person.ID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.TokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.TokenSecret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	s.audit.Record(ctx, person.ID, models.AuditActionAdminLogin, "auth", person.ID, map[string]string{"status": "success"}, RequestMeta{IP: req.IP, UserAgent: req.UserAgent})

	return &dto.AdminLoginResponse{
		AccessToken: signed,
		ExpiresIn:   int64(s.config.TokenTTL.Seconds()),
		IssuedAt:    issuedAt,
		Name:        person.Name,
	}, nil
}

// ValidateToken parses an admin access token.
func (s *AdminService) ValidateToken(tokenString string) (*models.AdminClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.config.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	claims := &models.AdminClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.TokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}
	if !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// ListProfessors returns submission progress for every professor.
func (s *AdminService) ListProfessors(ctx context.Context) ([]dto.ProfessorProgressItem, error) {
	rows, err := s.professors.ListWithProgress(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list professors")
	}
	items := make([]dto.ProfessorProgressItem, len(rows))
	for i, row := range rows {
		items[i] = dto.ProfessorProgressItem{
			ID:            row.ID,
			ShortName:     row.ShortName,
			FullName:      row.FullName,
			MinMaxDays:    row.MinMaxDays,
			LastModified:  row.LastModified,
			PriorityCount: row.PriorityCount,
			Submitted:     row.LastModified != nil,
		}
	}
	return items, nil
}
