package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/horarios-api/internal/models"
)

// ScheduleRepository reads schedule blocks and their shift mapping.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository instantiates the repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// ListBlocks returns every block, or when shift is set only the blocks whose
// time range (or id) is mapped to that shift. Ordering is left to callers.
func (r *ScheduleRepository) ListBlocks(ctx context.Context, shift *string) ([]models.ScheduleBlock, error) {
	query := strings.Builder{}
	query.WriteString(`
SELECT
	sb.id,
	sb.day,
	to_char(sb.start_time, 'HH24:MI:SS') AS start_time,
	to_char(sb.end_time, 'HH24:MI:SS') AS end_time
FROM schedule_blocks sb`)

	var args []interface{}
	if shift != nil {
		args = append(args, *shift)
		fmt.Fprintf(&query, `
WHERE EXISTS (
	SELECT 1 FROM shift_time_ranges str
	WHERE str.shift = $%d
		AND (str.block_id = sb.id
			OR (str.block_id IS NULL AND str.start_time = sb.start_time AND str.end_time = sb.end_time))
)`, len(args))
	}
	query.WriteString("\nORDER BY sb.start_time ASC, sb.id ASC")

	var blocks []models.ScheduleBlock
	if err := r.db.SelectContext(ctx, &blocks, query.String(), args...); err != nil {
		return nil, fmt.Errorf("list schedule blocks: %w", err)
	}
	return blocks, nil
}

// ListTimeRanges returns distinct block time ranges in start order.
func (r *ScheduleRepository) ListTimeRanges(ctx context.Context) ([]models.TimeRange, error) {
	const query = `
SELECT DISTINCT
	to_char(start_time, 'HH24:MI:SS') AS start_time,
	to_char(end_time, 'HH24:MI:SS') AS end_time
FROM schedule_blocks
ORDER BY start_time ASC, end_time ASC`
	var ranges []models.TimeRange
	if err := r.db.SelectContext(ctx, &ranges, query); err != nil {
		return nil, fmt.Errorf("list time ranges: %w", err)
	}
	return ranges, nil
}
