package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/horarios-api/internal/models"
)

// ProfessorRepository reads professor records keyed by cedula.
type ProfessorRepository struct {
	db *sqlx.DB
}

// NewProfessorRepository instantiates the repository.
func NewProfessorRepository(db *sqlx.DB) *ProfessorRepository {
	return &ProfessorRepository{db: db}
}

// FindByID returns the professor or sql.ErrNoRows.
func (r *ProfessorRepository) FindByID(ctx context.Context, id string) (*models.Professor, error) {
	const query = `SELECT id, short_name, full_name, min_max_days, last_modified FROM professors WHERE id = $1`
	var professor models.Professor
	if err := r.db.GetContext(ctx, &professor, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find professor: %w", err)
	}
	return &professor, nil
}

// ListWithProgress returns every professor with their stored priority count.
func (r *ProfessorRepository) ListWithProgress(ctx context.Context) ([]models.ProfessorProgress, error) {
	const query = `
SELECT
	p.id,
	p.short_name,
	p.full_name,
	p.min_max_days,
	p.last_modified,
	COUNT(pr.block_id) AS priority_count
FROM professors p
LEFT JOIN priorities pr ON pr.professor_id = p.id
GROUP BY p.id, p.short_name, p.full_name, p.min_max_days, p.last_modified
ORDER BY p.full_name ASC`
	var items []models.ProfessorProgress
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list professors: %w", err)
	}
	return items, nil
}
