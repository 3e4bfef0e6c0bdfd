package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/horarios-api/internal/models"
)

// CatalogRepository lists subjects, shifts and teaching eligibility.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository instantiates the repository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	const query = `SELECT code, short_name, full_name, weekly_hours, day_count FROM subjects ORDER BY short_name ASC`
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

func (r *CatalogRepository) ListShifts(ctx context.Context) ([]models.Shift, error) {
	var shifts []models.Shift
	if err := r.db.SelectContext(ctx, &shifts, `SELECT name FROM shifts ORDER BY name ASC`); err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	return shifts, nil
}

// ListEligibility returns the professor's eligibility rows joined with subject data.
func (r *CatalogRepository) ListEligibility(ctx context.Context, professorID string) ([]models.EligibleSubject, error) {
	const query = `
SELECT
	s.code,
	s.short_name,
	s.full_name,
	s.weekly_hours,
	s.day_count,
	te.shift,
	te.max_groups
FROM teaching_eligibility te
JOIN subjects s ON s.code = te.subject_code
WHERE te.professor_id = $1
ORDER BY s.short_name ASC, te.shift ASC`
	var rows []models.EligibleSubject
	if err := r.db.SelectContext(ctx, &rows, query, professorID); err != nil {
		return nil, fmt.Errorf("list teaching eligibility: %w", err)
	}
	return rows, nil
}
