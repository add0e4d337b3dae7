package dto

import (
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/scheduler"
)

// GenerateScheduleRequest asks the engine to (re)generate a timetable.
type GenerateScheduleRequest struct {
	TimetableID string `json:"timetableId" validate:"required"`
	Async       bool   `json:"async"`
}

// GenerateScheduleResponse summarises a finished generation run.
type GenerateScheduleResponse struct {
	TimetableID     string                         `json:"timetableId"`
	Status          models.GenerationStatus        `json:"status"`
	Attempts        int                            `json:"attempts"`
	Restarts        int                            `json:"restarts"`
	Assignments     []scheduler.AbstractAssignment `json:"assignments"`
	OccurrenceCount int                            `json:"occurrenceCount"`
	Warnings        []scheduler.BuildWarning       `json:"warnings"`
}

// EnqueueScheduleResponse is returned for asynchronous generation requests.
type EnqueueScheduleResponse struct {
	TimetableID string                  `json:"timetableId"`
	JobID       string                  `json:"jobId"`
	Status      models.GenerationStatus `json:"status"`
}

// OccurrenceExportQuery selects the export format.
type OccurrenceExportQuery struct {
	Format string `form:"format" validate:"omitempty,oneof=csv pdf"`
}
