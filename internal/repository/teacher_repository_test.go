package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeacherRepositoryListActive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, full_name, active FROM teachers WHERE active = TRUE ORDER BY id ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "active"}).
			AddRow("t1", "Teacher A", true).
			AddRow("t2", "Teacher B", true))

	teachers, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, teachers, 2)
	assert.Equal(t, "Teacher B", teachers[1].FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryListActiveError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	boom := errors.New("connection reset")
	mock.ExpectQuery("FROM teachers").WillReturnError(boom)

	_, err := repo.ListActive(context.Background())
	assert.ErrorIs(t, err, boom)
}
