package models

import "time"

// ClassOccurrence is one dated meeting of a class starting at PeriodID.
type ClassOccurrence struct {
	ID        string    `db:"id" json:"id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	Date      time.Time `db:"occurrence_date" json:"date"`
	PeriodID  string    `db:"period_id" json:"period_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
