package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/horarios-api/internal/models"
	appErrors "github.com/noah-isme/horarios-api/pkg/errors"
)

func newExportFixture(t *testing.T) (*ExportService, *memoryStore, *auditRecorderStub) {
	t.Helper()
	store := newMemoryStore()
	assignments, prefs, _ := newTestServices(store, nil)
	require.NoError(t, prefs.Submit(context.Background(), "1", submitRequest(t, map[string]int{"1": 2, "3": 1}, nil), RequestMeta{}))

	audit := &auditRecorderStub{}
	svc := NewExportService(store, assignments, NewAuditService(audit, nil), testSettings(), nil)
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC) }
	return svc, store, audit
}

func readCSV(t *testing.T, body []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestProfessorGridCSV(t *testing.T) {
	svc, _, audit := newExportFixture(t)

	file, err := svc.ProfessorGrid(context.Background(), "1", "csv", "admin-1", RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, "preferencias_juan.csv", file.Filename)
	assert.Contains(t, file.ContentType, "text/csv")

	records := readCSV(t, file.Body)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Horario", "lun", "mar", "mie", "jue", "vie"}, records[0])
	assert.Equal(t, []string{"08:00-10:00", "2", "0", "", "", ""}, records[1])
	assert.Equal(t, []string{"14:00-16:00", "1", "", "", "", ""}, records[2])
	assert.Equal(t, []string{models.AuditActionPreferencesExport}, audit.actions())
}

func TestProfessorGridPDF(t *testing.T) {
	svc, _, _ := newExportFixture(t)

	file, err := svc.ProfessorGrid(context.Background(), "1", "pdf", "admin-1", RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Body, []byte("%PDF")))
}

func TestProfessorGridErrors(t *testing.T) {
	svc, _, _ := newExportFixture(t)

	_, err := svc.ProfessorGrid(context.Background(), "1", "xlsx", "admin-1", RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.ProfessorGrid(context.Background(), "404", "csv", "admin-1", RequestMeta{})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnknownProfessor))
}

func TestAllPreferencesCSV(t *testing.T) {
	svc, _, _ := newExportFixture(t)

	file, err := svc.AllPreferences(context.Background(), "", "admin-1", RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, "preferencias_20250310.csv", file.Filename)

	records := readCSV(t, file.Body)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Cedula", "Profesor", "Bloque", "Dia", "Inicio", "Fin", "Prioridad"}, records[0])
	assert.Equal(t, []string{"1", "juan", "1", "lun", "08:00", "10:00", "2"}, records[1])
	assert.Equal(t, []string{"1", "juan", "3", "lun", "14:00", "16:00", "1"}, records[2])
}
