package models

import "time"

// GenerationStatus represents lifecycle phases of a timetable generation run.
type GenerationStatus string

const (
	GenerationStatusQueued    GenerationStatus = "QUEUED"
	GenerationStatusRunning   GenerationStatus = "RUNNING"
	GenerationStatusScheduled GenerationStatus = "SCHEDULED"
	GenerationStatusExhausted GenerationStatus = "EXHAUSTED"
	GenerationStatusFailed    GenerationStatus = "FAILED"
)

// GenerationRun summarises the latest generation attempt for a timetable.
type GenerationRun struct {
	TimetableID     string           `json:"timetable_id"`
	JobID           string           `json:"job_id,omitempty"`
	Status          GenerationStatus `json:"status"`
	Attempts        int              `json:"attempts"`
	Restarts        int              `json:"restarts"`
	OccurrenceCount int              `json:"occurrence_count"`
	Message         string           `json:"message,omitempty"`
	StartedAt       time.Time        `json:"started_at"`
	FinishedAt      *time.Time       `json:"finished_at,omitempty"`
}
