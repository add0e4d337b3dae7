package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// ClassRepository reads the classes attached to a timetable.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a ClassRepository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// ListByTimetable returns the timetable's classes ordered by id, each with its
// period preferences.
func (r *ClassRepository) ListByTimetable(ctx context.Context, timetableID string) ([]models.Class, error) {
	const query = `SELECT id, timetable_id, course_id, teacher_id, frequency, length FROM classes WHERE timetable_id = $1 ORDER BY id ASC`
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, timetableID); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	if len(classes) == 0 {
		return classes, nil
	}

	ids := make([]string, len(classes))
	for i, c := range classes {
		ids[i] = c.ID
	}
	const prefQuery = `SELECT id, class_id, day_id, period_id FROM class_period_preferences WHERE class_id = ANY($1) ORDER BY class_id ASC, id ASC`
	var prefs []models.ClassPeriodPreference
	if err := r.db.SelectContext(ctx, &prefs, prefQuery, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("list class period preferences: %w", err)
	}

	byClass := make(map[string][]models.ClassPeriodPreference, len(classes))
	for _, p := range prefs {
		byClass[p.ClassID] = append(byClass[p.ClassID], p)
	}
	for i := range classes {
		classes[i].Preferences = byClass[classes[i].ID]
	}
	return classes, nil
}
