package scheduler

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// WarningKind classifies recoverable problems found while building a document.
type WarningKind string

const (
	WarnTeacherNotFound       WarningKind = "TEACHER_NOT_FOUND"
	WarnClassResourceMissing  WarningKind = "CLASS_RESOURCE_MISSING"
	WarnPreferenceOutOfRange  WarningKind = "PREFERENCE_OUT_OF_RANGE"
	WarnDegenerateRequirement WarningKind = "DEGENERATE_REQUIREMENT"
	WarnUnknownDay            WarningKind = "UNKNOWN_DAY"
)

// BuildWarning describes one element omitted from the requirement document.
type BuildWarning struct {
	Kind     WarningKind `json:"kind"`
	ClassID  string      `json:"classId,omitempty"`
	DayID    string      `json:"dayId,omitempty"`
	PeriodID string      `json:"periodId,omitempty"`
	Message  string      `json:"message"`
}

// Builder turns class records into requirement lines.
type Builder struct {
	logger *zap.Logger
}

// NewBuilder constructs a Builder.
func NewBuilder(logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{logger: logger}
}

// Grid builds the weekly grid for tt and logs dropped days.
func (b *Builder) Grid(tt models.Timetable) (Grid, []BuildWarning) {
	grid, warnings := NewGrid(tt)
	for _, w := range warnings {
		b.warn(w)
	}
	return grid, warnings
}

// Build produces one requirement line per schedulable class, in class order.
// Unresolvable teachers and preferences are omitted; a class whose own
// resource is missing from the pool, or whose requirement is degenerate, is
// skipped entirely.
func (b *Builder) Build(classes []models.Class, pool *Pool, grid Grid) (*Document, []BuildWarning) {
	doc := NewDocument()
	var warnings []BuildWarning
	record := func(w BuildWarning) {
		warnings = append(warnings, w)
		b.warn(w)
	}

	for _, class := range classes {
		line := &RequirementLine{
			ClassID:   class.ID,
			Frequency: class.Frequency,
			Length:    class.Length,
		}

		if class.TeacherID != nil && *class.TeacherID != "" {
			teacher := TeacherResource(*class.TeacherID)
			if _, ok := pool.Get(teacher); ok {
				line.addResource(teacher)
			} else {
				record(BuildWarning{
					Kind:    WarnTeacherNotFound,
					ClassID: class.ID,
					Message: fmt.Sprintf("teacher %s not found; class scheduled without teacher constraint", *class.TeacherID),
				})
			}
		}

		self := ClassResource(class.ID)
		if _, ok := pool.Get(self); !ok {
			record(BuildWarning{
				Kind:    WarnClassResourceMissing,
				ClassID: class.ID,
				Message: "class is not registered as a resource; requirement skipped",
			})
			continue
		}
		line.addResource(self)

		if line.Frequency <= 0 || line.Length <= 0 || len(line.Resources) == 0 {
			record(BuildWarning{
				Kind:    WarnDegenerateRequirement,
				ClassID: class.ID,
				Message: fmt.Sprintf("requirement skipped (frequency=%d, length=%d, resources=%d)", line.Frequency, line.Length, len(line.Resources)),
			})
			continue
		}

		line.Preference = b.preferenceMatrix(class, grid, record)
		line.Working = NewMatrix(grid.NumDays(), grid.NumPeriods())
		doc.Append(line)
	}
	return doc, warnings
}

// preferenceMatrix marks each declared preference run as preferred. A class
// without any declared preference accepts every cell.
func (b *Builder) preferenceMatrix(class models.Class, grid Grid, record func(BuildWarning)) Matrix {
	var pref Matrix
	if len(class.Preferences) == 0 {
		pref.Reset(grid.NumDays(), grid.NumPeriods())
		return pref
	}
	pref.Fill(grid.NumDays(), grid.NumPeriods(), CellBusy)
	for _, p := range class.Preferences {
		day, period := grid.DayIndex(p.DayID), grid.PeriodIndex(p.PeriodID)
		if day < 0 || period < 0 {
			record(BuildWarning{
				Kind:     WarnPreferenceOutOfRange,
				ClassID:  class.ID,
				DayID:    p.DayID,
				PeriodID: p.PeriodID,
				Message:  "period preference references a day or period outside the timetable grid",
			})
			continue
		}
		for k := 0; k < class.Length; k++ {
			pref.Set(day, period+k, CellFree)
		}
	}
	return pref
}

func (b *Builder) warn(w BuildWarning) {
	b.logger.Warn("requirement build warning",
		zap.String("kind", string(w.Kind)),
		zap.String("class_id", w.ClassID),
		zap.String("day_id", w.DayID),
		zap.String("period_id", w.PeriodID),
		zap.String("message", w.Message),
	)
}
