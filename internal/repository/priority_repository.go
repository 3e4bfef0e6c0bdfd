package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/horarios-api/internal/models"
)

// ErrProfessorNotFound is returned by Replace when the professor row is absent.
var ErrProfessorNotFound = errors.New("professor not found")

// MissingBlocksError lists submitted block ids that do not exist.
type MissingBlocksError struct {
	IDs []int64
}

func (e *MissingBlocksError) Error() string {
	parts := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return "unknown schedule blocks: " + strings.Join(parts, ", ")
}

// PriorityRepository persists professor preferences per schedule block.
type PriorityRepository struct {
	db *sqlx.DB
}

// NewPriorityRepository instantiates the repository.
func NewPriorityRepository(db *sqlx.DB) *PriorityRepository {
	return &PriorityRepository{db: db}
}

// Replace swaps the professor's whole priority set for set.Values in one
// transaction. The professor row is locked first so concurrent submissions
// for the same professor serialize and the last commit wins. Rows for
// blocks outside the new set are deleted; the rest are updated in place or
// inserted.
func (r *PriorityRepository) Replace(ctx context.Context, set models.PreferenceSet, modifiedAt time.Time) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin priority transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var locked string
	if err = tx.GetContext(ctx, &locked, `SELECT id FROM professors WHERE id = $1 FOR UPDATE`, set.ProfessorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrProfessorNotFound
			return err
		}
		return fmt.Errorf("lock professor: %w", err)
	}

	ids := make([]int64, 0, len(set.Values))
	for id := range set.Values {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	if len(ids) > 0 {
		// Block ids are SERIAL; anything wider cannot exist and would make
		// Postgres reject the integer[] parameter outright.
		var found []int64
		if storable := storableIDs(ids); len(storable) > 0 {
			if err = tx.SelectContext(ctx, &found, `SELECT id FROM schedule_blocks WHERE id = ANY($1)`, pq.Array(storable)); err != nil {
				return fmt.Errorf("check schedule blocks: %w", err)
			}
		}
		if missing := missingIDs(ids, found); len(missing) > 0 {
			err = &MissingBlocksError{IDs: missing}
			return err
		}
	}

	const updateProfessor = `UPDATE professors SET last_modified = $2, min_max_days = $3 WHERE id = $1`
	if _, err = tx.ExecContext(ctx, updateProfessor, set.ProfessorID, modifiedAt, set.MinMaxDays); err != nil {
		return fmt.Errorf("stamp professor: %w", err)
	}

	if len(ids) == 0 {
		if _, err = tx.ExecContext(ctx, `DELETE FROM priorities WHERE professor_id = $1`, set.ProfessorID); err != nil {
			return fmt.Errorf("clear priorities: %w", err)
		}
	} else {
		values := make([]int64, len(ids))
		for i, id := range ids {
			values[i] = int64(set.Values[id])
		}

		const prune = `DELETE FROM priorities WHERE professor_id = $1 AND NOT (block_id = ANY($2))`
		if _, err = tx.ExecContext(ctx, prune, set.ProfessorID, pq.Array(ids)); err != nil {
			return fmt.Errorf("prune priorities: %w", err)
		}

		const upsert = `INSERT INTO priorities (professor_id, block_id, value)
SELECT $1, t.block_id, t.value FROM unnest($2::integer[], $3::integer[]) AS t(block_id, value)
ON CONFLICT (professor_id, block_id) DO UPDATE SET value = EXCLUDED.value`
		if _, err = tx.ExecContext(ctx, upsert, set.ProfessorID, pq.Array(ids), pq.Array(values)); err != nil {
			return fmt.Errorf("upsert priorities: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit priorities: %w", err)
	}
	return nil
}

// ListByProfessor returns stored values keyed by block id.
func (r *PriorityRepository) ListByProfessor(ctx context.Context, professorID string) (map[int64]int, error) {
	const query = `SELECT professor_id, block_id, value FROM priorities WHERE professor_id = $1 ORDER BY block_id ASC`
	var rows []models.Priority
	if err := r.db.SelectContext(ctx, &rows, query, professorID); err != nil {
		return nil, fmt.Errorf("list priorities: %w", err)
	}
	out := make(map[int64]int, len(rows))
	for _, row := range rows {
		out[row.BlockID] = row.Value
	}
	return out, nil
}

// ListForExport returns every stored priority joined with professor and block.
func (r *PriorityRepository) ListForExport(ctx context.Context) ([]models.PriorityExportRow, error) {
	const query = `
SELECT
	pr.professor_id,
	p.short_name,
	pr.block_id,
	sb.day,
	to_char(sb.start_time, 'HH24:MI:SS') AS start_time,
	to_char(sb.end_time, 'HH24:MI:SS') AS end_time,
	pr.value
FROM priorities pr
JOIN professors p ON p.id = pr.professor_id
JOIN schedule_blocks sb ON sb.id = pr.block_id
ORDER BY p.short_name ASC, sb.start_time ASC, pr.block_id ASC`
	var rows []models.PriorityExportRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list priorities for export: %w", err)
	}
	return rows, nil
}

func storableIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id > 0 && id <= math.MaxInt32 {
			out = append(out, id)
		}
	}
	return out
}

func missingIDs(want, found []int64) []int64 {
	seen := make(map[int64]struct{}, len(found))
	for _, id := range found {
		seen[id] = struct{}{}
	}
	var missing []int64
	for _, id := range want {
		if _, ok := seen[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
