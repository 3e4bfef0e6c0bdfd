package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/horarios-api/internal/models"
)

// SeedData is reference data loaded by the admin CLI.
type SeedData struct {
	Persons         []models.Person
	Professors      []models.Professor
	Subjects        []models.Subject
	Shifts          []models.Shift
	TimeRanges      []models.TimeRange
	Blocks          []models.ScheduleBlock
	ShiftTimeRanges []models.ShiftTimeRange
	Eligibility     []models.TeachingEligibility
}

// SeedRepository upserts reference data so seeding can be re-run safely.
type SeedRepository struct {
	db *sqlx.DB
}

// NewSeedRepository instantiates the repository.
func NewSeedRepository(db *sqlx.DB) *SeedRepository {
	return &SeedRepository{db: db}
}

type seedStep struct {
	name  string
	query string
	rows  func() []interface{}
}

// Seed writes data in dependency order within one transaction.
func (r *SeedRepository) Seed(ctx context.Context, data SeedData) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	steps := []seedStep{
		{
			name: "persons",
			query: `INSERT INTO persons (id, name, email, personal_email, role, password_hash)
VALUES (:id, :name, :email, :personal_email, :role, :password_hash)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, email = EXCLUDED.email, role = EXCLUDED.role,
	password_hash = COALESCE(EXCLUDED.password_hash, persons.password_hash)`,
			rows: func() []interface{} { return toRows(data.Persons) },
		},
		{
			name: "professors",
			query: `INSERT INTO professors (id, short_name, full_name)
VALUES (:id, :short_name, :full_name)
ON CONFLICT (id) DO UPDATE SET short_name = EXCLUDED.short_name, full_name = EXCLUDED.full_name`,
			rows: func() []interface{} { return toRows(data.Professors) },
		},
		{
			name: "subjects",
			query: `INSERT INTO subjects (code, short_name, full_name, weekly_hours, day_count)
VALUES (:code, :short_name, :full_name, :weekly_hours, :day_count)
ON CONFLICT (code) DO UPDATE SET short_name = EXCLUDED.short_name, full_name = EXCLUDED.full_name,
	weekly_hours = EXCLUDED.weekly_hours, day_count = EXCLUDED.day_count`,
			rows: func() []interface{} { return toRows(data.Subjects) },
		},
		{
			name:  "shifts",
			query: `INSERT INTO shifts (name) VALUES (:name) ON CONFLICT (name) DO NOTHING`,
			rows:  func() []interface{} { return toRows(data.Shifts) },
		},
		{
			name: "time ranges",
			query: `INSERT INTO time_ranges (start_time, end_time) VALUES (CAST(:start_time AS TIME), CAST(:end_time AS TIME))
ON CONFLICT DO NOTHING`,
			rows: func() []interface{} { return toRows(data.TimeRanges) },
		},
		{
			name: "schedule blocks",
			query: `INSERT INTO schedule_blocks (id, day, start_time, end_time)
VALUES (:id, :day, CAST(:start_time AS TIME), CAST(:end_time AS TIME))
ON CONFLICT (id) DO UPDATE SET day = EXCLUDED.day, start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time`,
			rows: func() []interface{} { return toRows(data.Blocks) },
		},
		{
			name: "shift time ranges",
			query: `INSERT INTO shift_time_ranges (shift, block_id, start_time, end_time)
SELECT :shift, :block_id, CAST(:start_time AS TIME), CAST(:end_time AS TIME)
WHERE NOT EXISTS (
	SELECT 1 FROM shift_time_ranges
	WHERE shift = :shift AND start_time = CAST(:start_time AS TIME) AND end_time = CAST(:end_time AS TIME)
)`,
			rows: func() []interface{} { return toRows(data.ShiftTimeRanges) },
		},
		{
			name: "teaching eligibility",
			query: `INSERT INTO teaching_eligibility (professor_id, subject_code, shift, max_groups)
VALUES (:professor_id, :subject_code, :shift, :max_groups)
ON CONFLICT (professor_id, subject_code, shift) DO UPDATE SET max_groups = EXCLUDED.max_groups`,
			rows: func() []interface{} { return toRows(data.Eligibility) },
		},
	}

	for _, step := range steps {
		for _, row := range step.rows() {
			if _, err = tx.NamedExecContext(ctx, step.query, row); err != nil {
				return fmt.Errorf("seed %s: %w", step.name, err)
			}
		}
	}

	// explicit block ids leave the serial behind
	const resetSequence = `SELECT setval(pg_get_serial_sequence('schedule_blocks', 'id'), COALESCE((SELECT MAX(id) FROM schedule_blocks), 0) + 1, false)`
	if _, err = tx.ExecContext(ctx, resetSequence); err != nil {
		return fmt.Errorf("reset block sequence: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

func toRows[T any](items []T) []interface{} {
	rows := make([]interface{}, len(items))
	for i := range items {
		rows[i] = &items[i]
	}
	return rows
}
