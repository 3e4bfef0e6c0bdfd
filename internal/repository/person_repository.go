package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/horarios-api/internal/models"
)

// PersonRepository provides access to persons for administrator login.
type PersonRepository struct {
	db *sqlx.DB
}

// NewPersonRepository instantiates the repository.
func NewPersonRepository(db *sqlx.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

// FindByEmail matches email case-insensitively.
func (r *PersonRepository) FindByEmail(ctx context.Context, email string) (*models.Person, error) {
	const query = `SELECT id, name, email, personal_email, role, password_hash, created_at FROM persons WHERE LOWER(email) = LOWER($1) LIMIT 1`
	var person models.Person
	if err := r.db.GetContext(ctx, &person, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find person by email: %w", err)
	}
	return &person, nil
}
