package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blockRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "day", "start_time", "end_time"}).
		AddRow(1, "lun", "08:00:00", "10:00:00").
		AddRow(2, "mar", "08:00:00", "10:00:00")
}

func TestScheduleRepositoryListBlocksAll(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery("FROM schedule_blocks sb\\s+ORDER BY").
		WithArgs().
		WillReturnRows(blockRows())

	blocks, err := repo.ListBlocks(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, int64(1), blocks[0].ID)
	assert.Equal(t, "08:00:00", blocks[0].StartTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListBlocksByShift(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	shift := "Mañana"
	mock.ExpectQuery("WHERE str.shift = \\$1").
		WithArgs(shift).
		WillReturnRows(blockRows())

	blocks, err := repo.ListBlocks(context.Background(), &shift)
	require.NoError(t, err)
	assert.Len(t, blocks, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListTimeRanges(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery("SELECT DISTINCT").
		WillReturnRows(sqlmock.NewRows([]string{"start_time", "end_time"}).
			AddRow("08:00:00", "10:00:00").
			AddRow("10:00:00", "12:00:00"))

	ranges, err := repo.ListTimeRanges(context.Background())
	require.NoError(t, err)
	require.Len(t, ranges, 2)
	assert.Equal(t, "10:00:00", ranges[1].StartTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepository(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	mock.ExpectQuery("FROM subjects ORDER BY short_name").
		WillReturnRows(sqlmock.NewRows([]string{"code", "short_name", "full_name", "weekly_hours", "day_count"}).
			AddRow("MAT101", "MAT101", "Matemática Básica", 4, 2))
	subjects, err := repo.ListSubjects(context.Background())
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Equal(t, 4, subjects[0].WeeklyHours)

	mock.ExpectQuery("SELECT name FROM shifts").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Mañana").AddRow("Tarde"))
	shifts, err := repo.ListShifts(context.Background())
	require.NoError(t, err)
	assert.Len(t, shifts, 2)

	mock.ExpectQuery("FROM teaching_eligibility te").
		WithArgs("1001").
		WillReturnRows(sqlmock.NewRows([]string{"code", "short_name", "full_name", "weekly_hours", "day_count", "shift", "max_groups"}).
			AddRow("MAT101", "MAT101", "Matemática Básica", 4, 2, "Mañana", 2).
			AddRow("FIS101", "FIS101", nil, 4, 2, "Tarde", 1))
	rows, err := repo.ListEligibility(context.Background(), "1001")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Mañana", rows[0].Shift)
	assert.Nil(t, rows[1].FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
