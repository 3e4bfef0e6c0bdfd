package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/horarios-api/internal/dto"
	"github.com/noah-isme/horarios-api/internal/models"
	appErrors "github.com/noah-isme/horarios-api/pkg/errors"
)

type assignmentServiceMock struct {
	shift *string
}

func (m *assignmentServiceMock) ResolveTeachingAssignments(ctx context.Context, professorID string) (*dto.TeachingAssignments, error) {
	if professorID != "1" {
		return nil, appErrors.ErrUnknownProfessor
	}
	return &dto.TeachingAssignments{Subjects: []dto.SubjectView{{Code: "MAT101", ShortName: "MAT101"}}, Shifts: []string{"Mañana"}}, nil
}

func (m *assignmentServiceMock) ListScheduleBlocks(ctx context.Context, shift *string) ([]dto.ScheduleBlockView, error) {
	m.shift = shift
	return []dto.ScheduleBlockView{{ID: 1, Day: "lun", StartTime: "08:00", EndTime: "10:00"}}, nil
}

func (m *assignmentServiceMock) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	return []models.Subject{{Code: "MAT101"}}, nil
}

func (m *assignmentServiceMock) ListShifts(ctx context.Context) ([]string, error) {
	return []string{"Mañana", "Tarde"}, nil
}

func TestCatalogHandlerBlocks(t *testing.T) {
	svc := &assignmentServiceMock{}
	h := NewCatalogHandler(svc)
	session := &models.Session{UserID: "1"}

	w := performWithSession(http.MethodGet, "/api/blocks?turno=Ma%C3%B1ana", nil, session, h.Blocks)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.shift)
	assert.Equal(t, "Mañana", *svc.shift)
	assert.Contains(t, w.Body.String(), `"hora_inicio":"08:00"`)
	assert.Contains(t, w.Body.String(), `"total":1`)

	w = performWithSession(http.MethodGet, "/api/blocks", nil, session, h.Blocks)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, svc.shift)
}

func TestCatalogHandlerLookups(t *testing.T) {
	h := NewCatalogHandler(&assignmentServiceMock{})
	session := &models.Session{UserID: "1"}

	w := performWithSession(http.MethodGet, "/api/subjects", nil, session, h.Subjects)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "MAT101")

	w = performWithSession(http.MethodGet, "/api/shifts", nil, session, h.Shifts)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Tarde")

	w = performWithSession(http.MethodGet, "/api/assignments", nil, session, h.Assignments)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"turnos":["Mañana"]`)

	w = performWithSession(http.MethodGet, "/api/assignments", nil, &models.Session{UserID: "404"}, h.Assignments)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performWithSession(http.MethodGet, "/api/assignments", nil, nil, h.Assignments)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
