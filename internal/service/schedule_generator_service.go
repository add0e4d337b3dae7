package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/repository"
	"github.com/noah-isme/sma-timetable-api/internal/scheduler"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/jobs"
	"github.com/noah-isme/sma-timetable-api/pkg/middleware/requestid"
)

// GenerationJobType tags queued generation jobs.
const GenerationJobType = "timetable.generate"

const runStatusKeyPrefix = "timetable:generation:run:"

type timetableReader interface {
	FindByID(ctx context.Context, id string) (*models.Timetable, error)
}

type classLister interface {
	ListByTimetable(ctx context.Context, timetableID string) ([]models.Class, error)
}

type teacherLister interface {
	ListActive(ctx context.Context) ([]models.Teacher, error)
}

type occurrenceStore interface {
	ReplaceForClasses(ctx context.Context, exec sqlx.ExtContext, classIDs []string, occurrences []models.ClassOccurrence) error
	ListByTimetable(ctx context.Context, timetableID string) ([]models.ClassOccurrence, error)
}

type runLocker interface {
	Acquire(ctx context.Context, timetableID string, ttl time.Duration) (func(), bool, error)
}

type runStatusStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type schedulerMetrics interface {
	ObserveSchedulerRun(outcome string, attempts int, duration time.Duration, occurrences int)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

type scheduleRunner interface {
	Run(doc *scheduler.Document, pool *scheduler.Pool, grid scheduler.Grid) scheduler.RunResult
}

// GenerationJobPayload is carried by queued generation jobs.
type GenerationJobPayload struct {
	TimetableID string
}

// ScheduleGeneratorConfig governs generator behaviour.
type ScheduleGeneratorConfig struct {
	Disabled     bool
	MaxAttempts  int
	LockTTL      time.Duration
	RunStatusTTL time.Duration
}

// ScheduleGeneratorDeps bundles the collaborators of ScheduleGeneratorService.
type ScheduleGeneratorDeps struct {
	Timetables  timetableReader
	Classes     classLister
	Teachers    teacherLister
	Occurrences occurrenceStore
	Locks       runLocker
	Runs        runStatusStore
	Tx          txProvider
	Metrics     schedulerMetrics
	Validator   *validator.Validate
	Logger      *zap.Logger
}

// ScheduleGeneratorService generates a timetable's occurrences and tracks run summaries.
type ScheduleGeneratorService struct {
	timetables  timetableReader
	classes     classLister
	teachers    teacherLister
	occurrences occurrenceStore
	locks       runLocker
	runs        runStatusStore
	tx          txProvider
	metrics     schedulerMetrics
	queue       jobDispatcher
	validator   *validator.Validate
	logger      *zap.Logger

	builder *scheduler.Builder
	engine  scheduleRunner
	cfg     ScheduleGeneratorConfig
	now     func() time.Time
}

// NewScheduleGeneratorService wires scheduler dependencies. Locks and Runs
// default to in-process implementations when nil.
func NewScheduleGeneratorService(deps ScheduleGeneratorDeps, cfg ScheduleGeneratorConfig) *ScheduleGeneratorService {
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Locks == nil {
		deps.Locks = repository.NewLocalRunLocker()
	}
	if deps.Runs == nil {
		deps.Runs = NewMemoryRunStore()
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = scheduler.DefaultMaxAttempts
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 5 * time.Minute
	}
	if cfg.RunStatusTTL <= 0 {
		cfg.RunStatusTTL = 24 * time.Hour
	}
	return &ScheduleGeneratorService{
		timetables:  deps.Timetables,
		classes:     deps.Classes,
		teachers:    deps.Teachers,
		occurrences: deps.Occurrences,
		locks:       deps.Locks,
		runs:        deps.Runs,
		tx:          deps.Tx,
		metrics:     deps.Metrics,
		validator:   deps.Validator,
		logger:      deps.Logger,
		builder:     scheduler.NewBuilder(deps.Logger),
		engine:      scheduler.NewEngine(deps.Logger, scheduler.EngineConfig{MaxAttempts: cfg.MaxAttempts}),
		cfg:         cfg,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// AttachQueue enables Enqueue. The queue's handler is normally a GenerationWorker
// built on this service, so it is attached after construction.
func (s *ScheduleGeneratorService) AttachQueue(queue jobDispatcher) {
	s.queue = queue
}

// Generate runs the engine for one timetable and replaces its stored occurrences.
func (s *ScheduleGeneratorService) Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule generation payload")
	}
	return s.generateLocked(ctx, req.TimetableID, "")
}

// Enqueue schedules an asynchronous generation run and returns its job id.
func (s *ScheduleGeneratorService) Enqueue(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.EnqueueScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule generation payload")
	}
	if s.cfg.Disabled {
		return nil, appErrors.Clone(appErrors.ErrServiceDisabled, "schedule generation is disabled")
	}
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrServiceDisabled, "asynchronous generation is disabled")
	}
	if _, err := s.loadTimetable(ctx, req.TimetableID); err != nil {
		return nil, err
	}

	jobID := uuid.NewString()
	job := jobs.Job{ID: jobID, Type: GenerationJobType, Payload: GenerationJobPayload{TimetableID: req.TimetableID}}
	if err := s.queue.Enqueue(job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue generation job")
	}
	s.storeRun(ctx, models.GenerationRun{
		TimetableID: req.TimetableID,
		JobID:       jobID,
		Status:      models.GenerationStatusQueued,
		StartedAt:   s.now(),
	})
	return &dto.EnqueueScheduleResponse{TimetableID: req.TimetableID, JobID: jobID, Status: models.GenerationStatusQueued}, nil
}

// LatestRun returns the last recorded run summary for a timetable.
func (s *ScheduleGeneratorService) LatestRun(ctx context.Context, timetableID string) (*models.GenerationRun, error) {
	var run models.GenerationRun
	if err := s.runs.Get(ctx, runStatusKeyPrefix+timetableID, &run); err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no generation run recorded for timetable")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load generation run")
	}
	return &run, nil
}

// ListOccurrences returns the stored occurrences of an existing timetable.
func (s *ScheduleGeneratorService) ListOccurrences(ctx context.Context, timetableID string) ([]models.ClassOccurrence, error) {
	if _, err := s.loadTimetable(ctx, timetableID); err != nil {
		return nil, err
	}
	occurrences, err := s.occurrences.ListByTimetable(ctx, timetableID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list occurrences")
	}
	if occurrences == nil {
		occurrences = []models.ClassOccurrence{}
	}
	return occurrences, nil
}

func (s *ScheduleGeneratorService) generateLocked(ctx context.Context, timetableID, jobID string) (*dto.GenerateScheduleResponse, error) {
	if s.cfg.Disabled {
		return nil, appErrors.Clone(appErrors.ErrServiceDisabled, "schedule generation is disabled")
	}
	release, ok, err := s.locks.Acquire(ctx, timetableID, s.cfg.LockTTL)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to acquire generation lock")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrGenerationRunning, "schedule generation already running for timetable")
	}
	defer release()
	return s.generate(ctx, timetableID, jobID)
}

func (s *ScheduleGeneratorService) generate(ctx context.Context, timetableID, jobID string) (*dto.GenerateScheduleResponse, error) {
	started := s.now()
	tt, err := s.loadTimetable(ctx, timetableID)
	if err != nil {
		return nil, err
	}
	run := models.GenerationRun{TimetableID: timetableID, JobID: jobID, Status: models.GenerationStatusRunning, StartedAt: started}
	s.storeRun(ctx, run)

	classes, err := s.classes.ListByTimetable(ctx, timetableID)
	if err != nil {
		return nil, s.fail(ctx, run, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classes"))
	}
	teachers, err := s.teachers.ListActive(ctx)
	if err != nil {
		return nil, s.fail(ctx, run, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers"))
	}

	result, warnings, err := s.schedule(*tt, classes, teachers)
	if err != nil {
		return nil, s.fail(ctx, run, err)
	}
	run.Attempts, run.Restarts = result.Attempts, result.Restarts

	if result.Outcome == scheduler.OutcomeExhausted {
		s.observe(string(scheduler.OutcomeExhausted), result.Attempts, started, 0)
		run.Status = models.GenerationStatusExhausted
		run.Message = fmt.Sprintf("class %s could not be placed after %d attempts", result.FailedClassID, result.Attempts)
		s.finish(ctx, run)
		s.logger.Warn("schedule generation exhausted",
			zap.String("timetable_id", timetableID),
			zap.String("request_id", requestid.FromContext(ctx)),
			zap.String("class_id", result.FailedClassID),
			zap.Int("attempts", result.Attempts),
		)
		return nil, appErrors.Clone(appErrors.ErrScheduleExhausted, run.Message)
	}

	occurrences := scheduler.Project(*tt, result.Assignments)
	classIDs := make([]string, len(classes))
	for i, c := range classes {
		classIDs[i] = c.ID
	}
	if err := s.persist(ctx, classIDs, occurrences); err != nil {
		s.observe("failed", result.Attempts, started, 0)
		return nil, s.fail(ctx, run, err)
	}

	s.observe(string(scheduler.OutcomeScheduled), result.Attempts, started, len(occurrences))
	run.Status = models.GenerationStatusScheduled
	run.OccurrenceCount = len(occurrences)
	s.finish(ctx, run)
	s.logger.Info("schedule generated",
		zap.String("timetable_id", timetableID),
		zap.String("request_id", requestid.FromContext(ctx)),
		zap.Int("assignments", len(result.Assignments)),
		zap.Int("occurrences", len(occurrences)),
		zap.Int("warnings", len(warnings)),
	)

	assignments := result.Assignments
	if assignments == nil {
		assignments = []scheduler.AbstractAssignment{}
	}
	if warnings == nil {
		warnings = []scheduler.BuildWarning{}
	}
	return &dto.GenerateScheduleResponse{
		TimetableID:     timetableID,
		Status:          models.GenerationStatusScheduled,
		Attempts:        result.Attempts,
		Restarts:        result.Restarts,
		Assignments:     assignments,
		OccurrenceCount: len(occurrences),
		Warnings:        warnings,
	}, nil
}

// schedule builds the run inputs and drives the engine, turning a panic into ErrInternal.
func (s *ScheduleGeneratorService) schedule(tt models.Timetable, classes []models.Class, teachers []models.Teacher) (res scheduler.RunResult, warnings []scheduler.BuildWarning, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("schedule engine panic", zap.String("timetable_id", tt.ID), zap.Any("panic", r))
			err = appErrors.Wrap(fmt.Errorf("engine panic: %v", r), appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "schedule generation failed")
		}
	}()

	grid, gridWarnings := s.builder.Grid(tt)
	pool := scheduler.NewPool(teachers, classes, grid)
	doc, buildWarnings := s.builder.Build(classes, pool, grid)
	warnings = append(gridWarnings, buildWarnings...)
	res = s.engine.Run(doc, pool, grid)
	return res, warnings, nil
}

func (s *ScheduleGeneratorService) persist(ctx context.Context, classIDs []string, occurrences []models.ClassOccurrence) (err error) {
	if s.tx == nil {
		if err := s.occurrences.ReplaceForClasses(ctx, nil, classIDs, occurrences); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist occurrences")
		}
		return nil
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.occurrences.ReplaceForClasses(ctx, tx, classIDs, occurrences); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist occurrences")
	}
	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit occurrences")
	}
	return nil
}

func (s *ScheduleGeneratorService) loadTimetable(ctx context.Context, id string) (*models.Timetable, error) {
	tt, err := s.timetables.FindByID(ctx, id)
	if err != nil {
		return nil, mapTimetableErr(err)
	}
	return tt, nil
}

func mapTimetableErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
}

func (s *ScheduleGeneratorService) fail(ctx context.Context, run models.GenerationRun, err error) error {
	run.Status = models.GenerationStatusFailed
	run.Message = appErrors.FromError(err).Message
	s.finish(ctx, run)
	return err
}

func (s *ScheduleGeneratorService) finish(ctx context.Context, run models.GenerationRun) {
	finished := s.now()
	run.FinishedAt = &finished
	s.storeRun(ctx, run)
}

// storeRun is best-effort: a status store outage never fails a run.
func (s *ScheduleGeneratorService) storeRun(ctx context.Context, run models.GenerationRun) {
	if err := s.runs.Set(ctx, runStatusKeyPrefix+run.TimetableID, run, s.cfg.RunStatusTTL); err != nil {
		s.logger.Warn("failed to store generation run", zap.String("timetable_id", run.TimetableID), zap.Error(err))
	}
}

func (s *ScheduleGeneratorService) observe(outcome string, attempts int, started time.Time, occurrences int) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveSchedulerRun(outcome, attempts, s.now().Sub(started), occurrences)
}

// GenerationWorker runs queued generation jobs.
type GenerationWorker struct {
	service *ScheduleGeneratorService
	logger  *zap.Logger
}

// NewGenerationWorker constructs a worker.
func NewGenerationWorker(service *ScheduleGeneratorService, logger *zap.Logger) *GenerationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GenerationWorker{service: service, logger: logger}
}

// Handle processes a queue job. Exhausted runs, unknown timetables, a disabled
// scheduler and malformed jobs are permanent failures; anything else is
// retried by the queue.
func (w *GenerationWorker) Handle(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(GenerationJobPayload)
	if !ok || payload.TimetableID == "" {
		return jobs.Permanent(fmt.Errorf("job %s: unexpected payload %T", job.ID, job.Payload))
	}

	if requestid.FromContext(ctx) == "" {
		ctx = requestid.WithID(ctx, job.ID)
	}
	_, err := w.service.generateLocked(ctx, payload.TimetableID, job.ID)
	if err == nil {
		return nil
	}
	w.logger.Warn("generation job failed",
		zap.String("job_id", job.ID),
		zap.String("timetable_id", payload.TimetableID),
		zap.Int("attempt", job.Attempt),
		zap.Error(err),
	)
	if errors.Is(err, appErrors.ErrScheduleExhausted) || errors.Is(err, appErrors.ErrNotFound) || errors.Is(err, appErrors.ErrServiceDisabled) {
		return jobs.Permanent(err)
	}
	return err
}
