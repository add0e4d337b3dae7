// Package scenario loads YAML timetable scenarios and runs them through the
// scheduling engine without touching storage.
package scenario

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/scheduler"
)

const dateLayout = "2006-01-02"

type TimetableDef struct {
	ID        string                   `yaml:"id"`
	Name      string                   `yaml:"name"`
	StartDate string                   `yaml:"startDate"`
	EndDate   string                   `yaml:"endDate"`
	Days      []models.TimetableDay    `yaml:"days"`
	Periods   []models.TimetablePeriod `yaml:"periods"`
}

// ToModel parses the scenario dates. Both must be YYYY-MM-DD.
func (d TimetableDef) ToModel() (models.Timetable, error) {
	start, err := time.Parse(dateLayout, d.StartDate)
	if err != nil {
		return models.Timetable{}, fmt.Errorf("startDate: %w", err)
	}
	end, err := time.Parse(dateLayout, d.EndDate)
	if err != nil {
		return models.Timetable{}, fmt.Errorf("endDate: %w", err)
	}
	id := d.ID
	if id == "" {
		id = "scenario"
	}
	return models.Timetable{
		ID:        id,
		Name:      d.Name,
		StartDate: start,
		EndDate:   end,
		Days:      d.Days,
		Periods:   d.Periods,
	}, nil
}

type Scenario struct {
	Name        string           `yaml:"name"`
	MaxAttempts int              `yaml:"maxAttempts,omitempty"`
	Timetable   TimetableDef     `yaml:"timetable"`
	Teachers    []models.Teacher `yaml:"teachers"`
	Classes     []models.Class   `yaml:"classes"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	for i := range sc.Teachers {
		sc.Teachers[i].Active = true
	}
	return &sc, nil
}

// Result is the outcome of one offline run.
type Result struct {
	Timetable   models.Timetable
	Run         scheduler.RunResult
	Warnings    []scheduler.BuildWarning
	Occurrences []models.ClassOccurrence
}

// Run schedules the scenario and projects the assignments onto its date range.
// Occurrences are empty when the run is exhausted.
func (sc *Scenario) Run(logger *zap.Logger) (*Result, error) {
	tt, err := sc.Timetable.ToModel()
	if err != nil {
		return nil, err
	}
	for i := range sc.Classes {
		sc.Classes[i].TimetableID = tt.ID
	}

	builder := scheduler.NewBuilder(logger)
	grid, warnings := builder.Grid(tt)
	pool := scheduler.NewPool(sc.Teachers, sc.Classes, grid)
	doc, buildWarnings := builder.Build(sc.Classes, pool, grid)
	warnings = append(warnings, buildWarnings...)

	run := scheduler.NewEngine(logger, scheduler.EngineConfig{MaxAttempts: sc.MaxAttempts}).Run(doc, pool, grid)
	res := &Result{Timetable: tt, Run: run, Warnings: warnings}
	if run.Outcome == scheduler.OutcomeScheduled {
		res.Occurrences = scheduler.Project(tt, run.Assignments)
	}
	return res, nil
}
