package repository

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/horarios-api/internal/models"
)

func TestSeedRepositorySeed(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSeedRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO persons").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO professors").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO shifts").WithArgs("Mañana").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO time_ranges").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO schedule_blocks").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("SELECT setval").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Seed(context.Background(), SeedData{
		Persons:    []models.Person{{ID: "1", Name: "juan", Role: models.RoleProfessor}},
		Professors: []models.Professor{{ID: "1", ShortName: "juan", FullName: "Juan Perez"}},
		Shifts:     []models.Shift{{Name: "Mañana"}},
		TimeRanges: []models.TimeRange{{StartTime: "08:00", EndTime: "10:00"}},
		Blocks:     []models.ScheduleBlock{{ID: 1, Day: "lun", StartTime: "08:00", EndTime: "10:00"}},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedRepositoryRollsBackOnError(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewSeedRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO shifts").WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	err := repo.Seed(context.Background(), SeedData{Shifts: []models.Shift{{Name: "Tarde"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed shifts")
	assert.NoError(t, mock.ExpectationsWereMet())
}
