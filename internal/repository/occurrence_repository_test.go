package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

func TestOccurrenceRepositoryReplaceForClassesInTx(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewOccurrenceRepository(db)

	date := time.Date(2024, 10, 28, 0, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM class_occurrences WHERE class_id = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO class_occurrences")).
		WithArgs(sqlmock.AnyArg(), "c1", date, "p1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO class_occurrences")).
		WithArgs(sqlmock.AnyArg(), "c2", date, "p2", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	occurrences := []models.ClassOccurrence{
		{ClassID: "c1", Date: date, PeriodID: "p1"},
		{ClassID: "c2", Date: date, PeriodID: "p2"},
	}
	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, repo.ReplaceForClasses(context.Background(), tx, []string{"c1", "c2"}, occurrences))
	require.NoError(t, tx.Commit())

	for _, occ := range occurrences {
		assert.NotEmpty(t, occ.ID)
		assert.False(t, occ.CreatedAt.IsZero())
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOccurrenceRepositoryReplaceForClassesDeleteError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewOccurrenceRepository(db)

	boom := errors.New("lock timeout")
	mock.ExpectExec("DELETE FROM class_occurrences").WillReturnError(boom)

	err := repo.ReplaceForClasses(context.Background(), nil, []string{"c1"}, []models.ClassOccurrence{{ClassID: "c1"}})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOccurrenceRepositoryListByTimetable(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewOccurrenceRepository(db)

	date := time.Date(2024, 10, 30, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE c.timetable_id = $1")).
		WithArgs("tt-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "class_id", "occurrence_date", "period_id", "created_at"}).
			AddRow("o1", "c1", date, "p1", time.Now()))

	list, err := repo.ListByTimetable(context.Background(), "tt-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Date.Equal(date))
	assert.NoError(t, mock.ExpectationsWereMet())
}
