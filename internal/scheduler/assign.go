package scheduler

import "go.uber.org/zap"

// DefaultMaxAttempts is the attempt ceiling used when EngineConfig leaves it unset.
const DefaultMaxAttempts = 100

// EngineConfig tunes the engine.
type EngineConfig struct {
	// MaxAttempts bounds the number of failed line placements per run.
	MaxAttempts int
}

// Engine places requirement lines and drives whole-document runs.
type Engine struct {
	logger      *zap.Logger
	maxAttempts int
}

// NewEngine constructs an Engine.
func NewEngine(logger *zap.Logger, cfg EngineConfig) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	return &Engine{logger: logger, maxAttempts: cfg.MaxAttempts}
}

// MaxAttempts returns the configured attempt ceiling.
func (e *Engine) MaxAttempts() int { return e.maxAttempts }

// Attempt places line.Frequency occurrences of line.Length periods. It returns
// false as soon as one occurrence cannot be placed; occurrences placed earlier
// in the same call stay committed on the pool and in line.Assigned.
func (e *Engine) Attempt(line *RequirementLine, pool *Pool, numDays, numPeriods int) bool {
	if numDays <= 0 || numPeriods <= 0 || line.Length <= 0 {
		return false
	}
	for i := 0; i < line.Frequency; i++ {
		entities := e.resolve(line, pool)
		e.buildWorking(line, entities, numDays, numPeriods)
		slot, ok := scan(line, entities, numDays, numPeriods)
		if !ok {
			return false
		}
		for _, ent := range entities {
			ent.Occupy(slot.Day, slot.Period, line.Length)
		}
		line.Assigned = append(line.Assigned, slot)
	}
	return true
}

// resolve returns the line's entities; a nil entry marks an unresolvable id.
func (e *Engine) resolve(line *RequirementLine, pool *Pool) []*Entity {
	entities := make([]*Entity, len(line.Resources))
	for i, id := range line.Resources {
		ent, ok := pool.Get(id)
		if !ok {
			e.logger.Error("requirement resource missing from pool",
				zap.String("class_id", line.ClassID),
				zap.String("resource", id.String()),
			)
			continue
		}
		entities[i] = ent
	}
	return entities
}

// buildWorking prefilters cells on the starting period only: a cell is open
// when every entity is free there and the class prefers it.
func (e *Engine) buildWorking(line *RequirementLine, entities []*Entity, numDays, numPeriods int) {
	line.Working.Reset(numDays, numPeriods)
	for day := 0; day < numDays; day++ {
		for period := 0; period < numPeriods; period++ {
			value := line.Preference.Get(day, period)
			for _, ent := range entities {
				if ent == nil || !ent.IsFree(day, period) {
					value = CellBusy
					break
				}
			}
			line.Working.Set(day, period, value)
		}
	}
}

// scan returns the first open cell, day-major, whose whole span fits in the
// day and is free for every entity.
func scan(line *RequirementLine, entities []*Entity, numDays, numPeriods int) (Slot, bool) {
	for day := 0; day < numDays; day++ {
		for period := 0; period < numPeriods; period++ {
			if line.Working.Get(day, period) != CellFree {
				continue
			}
			if numPeriods-period < line.Length {
				continue
			}
			if spanFree(entities, day, period, line.Length) {
				return Slot{Day: day, Period: period}, true
			}
		}
	}
	return Slot{}, false
}

func spanFree(entities []*Entity, day, period, length int) bool {
	for k := 0; k < length; k++ {
		for _, ent := range entities {
			if ent == nil || !ent.IsFree(day, period+k) {
				return false
			}
		}
	}
	return true
}
