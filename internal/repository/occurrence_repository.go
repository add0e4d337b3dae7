package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// OccurrenceRepository persists dated class occurrences.
type OccurrenceRepository struct {
	db *sqlx.DB
}

// NewOccurrenceRepository constructs an OccurrenceRepository.
func NewOccurrenceRepository(db *sqlx.DB) *OccurrenceRepository {
	return &OccurrenceRepository{db: db}
}

func (r *OccurrenceRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// ReplaceForClasses deletes every stored occurrence of classIDs and inserts
// occurrences in their place. Pass a transaction as exec to make the swap atomic.
func (r *OccurrenceRepository) ReplaceForClasses(ctx context.Context, exec sqlx.ExtContext, classIDs []string, occurrences []models.ClassOccurrence) error {
	target := r.exec(exec)
	if len(classIDs) > 0 {
		const del = `DELETE FROM class_occurrences WHERE class_id = ANY($1)`
		if _, err := target.ExecContext(ctx, del, pq.Array(classIDs)); err != nil {
			return fmt.Errorf("delete class occurrences: %w", err)
		}
	}

	const insert = `
INSERT INTO class_occurrences (id, class_id, occurrence_date, period_id, created_at)
VALUES (:id, :class_id, :occurrence_date, :period_id, :created_at)`

	now := time.Now().UTC()
	for i := range occurrences {
		occ := &occurrences[i]
		if occ.ID == "" {
			occ.ID = uuid.NewString()
		}
		if occ.CreatedAt.IsZero() {
			occ.CreatedAt = now
		}
		if _, err := sqlx.NamedExecContext(ctx, target, insert, occ); err != nil {
			return fmt.Errorf("insert class occurrence: %w", err)
		}
	}
	return nil
}

// ListByTimetable returns the timetable's occurrences ordered by date, period start and class.
func (r *OccurrenceRepository) ListByTimetable(ctx context.Context, timetableID string) ([]models.ClassOccurrence, error) {
	const query = `SELECT o.id, o.class_id, o.occurrence_date, o.period_id, o.created_at
FROM class_occurrences o
JOIN classes c ON c.id = o.class_id
LEFT JOIN timetable_periods p ON p.id = o.period_id
WHERE c.timetable_id = $1
ORDER BY o.occurrence_date ASC, p.start_time ASC, o.class_id ASC`
	var occurrences []models.ClassOccurrence
	if err := r.db.SelectContext(ctx, &occurrences, query, timetableID); err != nil {
		return nil, fmt.Errorf("list class occurrences: %w", err)
	}
	return occurrences, nil
}
