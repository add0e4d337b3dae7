package scheduler

import "go.uber.org/zap"

// RunState is a state of the document-level run.
type RunState int

const (
	// StateScheduling places the line under the cursor.
	StateScheduling RunState = iota
	// StateAdvance moves the cursor past a line that was placed.
	StateAdvance
	// StateRequeue promotes the failed line and restarts from a clean grid.
	StateRequeue
	// StateExhausted is terminal: the attempt ceiling was reached.
	StateExhausted
	// StateDone is terminal: every line was placed in one pass.
	StateDone
)

func (s RunState) String() string {
	switch s {
	case StateScheduling:
		return "scheduling"
	case StateAdvance:
		return "advance"
	case StateRequeue:
		return "requeue"
	case StateExhausted:
		return "exhausted"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Outcome is the terminal result of a run.
type Outcome string

const (
	OutcomeScheduled Outcome = "SCHEDULED"
	OutcomeExhausted Outcome = "EXHAUSTED"
)

// AbstractAssignment is one weekly-recurring placement of a class.
type AbstractAssignment struct {
	ClassID  string `json:"classId"`
	DayID    string `json:"dayId"`
	PeriodID string `json:"periodId"`
	Day      int    `json:"dayIndex"`
	Period   int    `json:"periodIndex"`
}

// RunResult summarises a run.
type RunResult struct {
	Outcome  Outcome
	Attempts int
	Restarts int
	// FailedClassID is the class whose placement hit the attempt ceiling.
	FailedClassID string
	// Assignments is only populated when Outcome is OutcomeScheduled.
	Assignments []AbstractAssignment
}

// run is the explicit state machine behind Engine.Run.
type run struct {
	engine *Engine
	doc    *Document
	pool   *Pool
	grid   Grid

	state    RunState
	cursor   int
	attempts int
	restarts int
	failedID string
}

func (e *Engine) newRun(doc *Document, pool *Pool, grid Grid) *run {
	r := &run{engine: e, doc: doc, pool: pool, grid: grid, state: StateScheduling}
	if doc.Len() == 0 {
		r.state = StateDone
	}
	return r
}

func (r *run) terminal() bool {
	return r.state == StateDone || r.state == StateExhausted
}

// step performs one transition and returns the new state.
func (r *run) step() RunState {
	switch r.state {
	case StateScheduling:
		line := r.doc.At(r.cursor)
		if r.engine.Attempt(line, r.pool, r.grid.NumDays(), r.grid.NumPeriods()) {
			r.state = StateAdvance
			break
		}
		r.attempts++
		r.failedID = line.ClassID
		if r.attempts >= r.engine.maxAttempts {
			r.state = StateExhausted
			break
		}
		r.state = StateRequeue
	case StateAdvance:
		r.cursor++
		if r.cursor >= r.doc.Len() {
			r.state = StateDone
			break
		}
		r.state = StateScheduling
	case StateRequeue:
		r.doc.PromoteToFront(r.cursor)
		r.pool.Reset(r.grid.NumDays(), r.grid.NumPeriods())
		for _, line := range r.doc.Lines() {
			line.ResetAssignments()
		}
		r.cursor = 0
		r.restarts++
		r.engine.logger.Debug("requirement requeued",
			zap.String("class_id", r.failedID),
			zap.Int("attempt", r.attempts),
		)
		r.state = StateScheduling
	}
	return r.state
}

func (r *run) result() RunResult {
	res := RunResult{Attempts: r.attempts, Restarts: r.restarts}
	if r.state != StateDone {
		res.Outcome = OutcomeExhausted
		res.FailedClassID = r.failedID
		return res
	}
	res.Outcome = OutcomeScheduled
	for _, line := range r.doc.Lines() {
		for _, slot := range line.Assigned {
			res.Assignments = append(res.Assignments, AbstractAssignment{
				ClassID:  line.ClassID,
				DayID:    r.grid.DayID(slot.Day),
				PeriodID: r.grid.PeriodID(slot.Period),
				Day:      slot.Day,
				Period:   slot.Period,
			})
		}
	}
	return res
}

// Run walks doc from the front, placing every line. A failed line is moved to
// the front, all availability and placements are cleared and the walk
// restarts; the run is exhausted once MaxAttempts placements have failed.
func (e *Engine) Run(doc *Document, pool *Pool, grid Grid) RunResult {
	r := e.newRun(doc, pool, grid)
	for !r.terminal() {
		r.step()
	}
	res := r.result()
	e.logger.Info("schedule run finished",
		zap.String("outcome", string(res.Outcome)),
		zap.Int("lines", doc.Len()),
		zap.Int("attempts", res.Attempts),
		zap.Int("restarts", res.Restarts),
		zap.Int("assignments", len(res.Assignments)),
	)
	return res
}
