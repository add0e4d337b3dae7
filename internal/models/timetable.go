package models

import "time"

// Timetable is a weekly grid of days and periods that repeats between StartDate and EndDate.
type Timetable struct {
	ID        string            `db:"id" json:"id"`
	Name      string            `db:"name" json:"name"`
	StartDate time.Time         `db:"start_date" json:"start_date"`
	EndDate   time.Time         `db:"end_date" json:"end_date"`
	Days      []TimetableDay    `db:"-" json:"days"`
	Periods   []TimetablePeriod `db:"-" json:"periods"`
}

// TimetableDay declares a teaching day of the week, e.g. "MONDAY".
type TimetableDay struct {
	ID          string `db:"id" json:"id" yaml:"id"`
	TimetableID string `db:"timetable_id" json:"timetable_id" yaml:"-"`
	DayOfWeek   string `db:"day_of_week" json:"day_of_week" yaml:"dayOfWeek"`
}

// TimetablePeriod declares a period of the day as "HH:MM" start and end times.
type TimetablePeriod struct {
	ID          string `db:"id" json:"id" yaml:"id"`
	TimetableID string `db:"timetable_id" json:"timetable_id" yaml:"-"`
	StartTime   string `db:"start_time" json:"start_time" yaml:"startTime"`
	EndTime     string `db:"end_time" json:"end_time" yaml:"endTime"`
}
