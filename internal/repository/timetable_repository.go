package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// TimetableRepository reads timetables with their weekly grid.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs a TimetableRepository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// FindByID loads a timetable together with its days and periods. A missing
// timetable returns sql.ErrNoRows unwrapped.
func (r *TimetableRepository) FindByID(ctx context.Context, id string) (*models.Timetable, error) {
	const query = `SELECT id, name, start_date, end_date FROM timetables WHERE id = $1`
	var tt models.Timetable
	if err := r.db.GetContext(ctx, &tt, query, id); err != nil {
		return nil, err
	}

	const daysQuery = `SELECT id, timetable_id, day_of_week FROM timetable_days WHERE timetable_id = $1 ORDER BY id ASC`
	if err := r.db.SelectContext(ctx, &tt.Days, daysQuery, id); err != nil {
		return nil, fmt.Errorf("list timetable days: %w", err)
	}

	const periodsQuery = `SELECT id, timetable_id, start_time, end_time FROM timetable_periods WHERE timetable_id = $1 ORDER BY start_time ASC, id ASC`
	if err := r.db.SelectContext(ctx, &tt.Periods, periodsQuery, id); err != nil {
		return nil, fmt.Errorf("list timetable periods: %w", err)
	}
	return &tt, nil
}
