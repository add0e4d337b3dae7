// Package app wires configuration, storage and services into a runnable
// timetable generation backend shared by the HTTP server and the CLI.
package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/handler"
	"github.com/noah-isme/sma-timetable-api/internal/repository"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	"github.com/noah-isme/sma-timetable-api/pkg/cache"
	"github.com/noah-isme/sma-timetable-api/pkg/config"
	"github.com/noah-isme/sma-timetable-api/pkg/database"
	"github.com/noah-isme/sma-timetable-api/pkg/jobs"
)

// Services holds the long-lived dependencies of the process.
type Services struct {
	DB        *sqlx.DB
	Redis     *redis.Client
	Metrics   *service.MetricsService
	Tokens    *service.TokenService
	Generator *service.ScheduleGeneratorService
	Exporter  *service.OccurrenceExportService
	Queue     *jobs.Queue

	logger *zap.Logger
}

// New connects to Postgres (and Redis when enabled) and builds the services.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Services, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	rdb, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}
	return build(cfg, logger, db, rdb), nil
}

func build(cfg *config.Config, logger *zap.Logger, db *sqlx.DB, rdb *redis.Client) *Services {
	timetables := repository.NewTimetableRepository(db)
	classes := repository.NewClassRepository(db)
	occurrences := repository.NewOccurrenceRepository(db)
	metrics := service.NewMetricsService()

	deps := service.ScheduleGeneratorDeps{
		Timetables:  timetables,
		Classes:     classes,
		Teachers:    repository.NewTeacherRepository(db),
		Occurrences: occurrences,
		Tx:          db,
		Metrics:     metrics,
		Logger:      logger.Named("scheduler"),
	}
	if rdb != nil {
		deps.Locks = repository.NewRunLockRepository(rdb)
		deps.Runs = repository.NewCacheRepository(rdb, "sma-timetable", logger)
	}
	generator := service.NewScheduleGeneratorService(deps, service.ScheduleGeneratorConfig{
		Disabled:     !cfg.Scheduler.Enabled,
		MaxAttempts:  cfg.Scheduler.MaxAttempts,
		LockTTL:      cfg.Scheduler.LockTTL,
		RunStatusTTL: cfg.Scheduler.RunStatusTTL,
	})

	s := &Services{
		DB:        db,
		Redis:     rdb,
		Metrics:   metrics,
		Tokens:    service.NewTokenService(cfg.JWT.Secret),
		Generator: generator,
		Exporter:  service.NewOccurrenceExportService(timetables, classes, occurrences, logger),
		logger:    logger,
	}
	if cfg.Scheduler.AsyncWorkers > 0 {
		worker := service.NewGenerationWorker(generator, logger)
		s.Queue = jobs.NewQueue("timetable-generation", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Scheduler.AsyncWorkers,
			MaxRetries: cfg.Scheduler.AsyncRetries,
			Logger:     logger,
		})
		generator.AttachQueue(s.Queue)
	}
	return s
}

// Start launches background workers.
func (s *Services) Start(ctx context.Context) {
	if s.Queue != nil {
		s.Queue.Start(ctx)
	}
}

// ReadinessChecks returns the dependency probes used by /ready.
func (s *Services) ReadinessChecks() map[string]handler.ReadinessCheck {
	checks := map[string]handler.ReadinessCheck{}
	if s.DB != nil {
		checks["postgres"] = s.DB.PingContext
	}
	if s.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return s.Redis.Ping(ctx).Err() }
	}
	return checks
}

// Close stops workers and releases connections.
func (s *Services) Close() error {
	if s.Queue != nil {
		s.Queue.Stop()
	}
	var firstErr error
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			firstErr = err
		}
	}
	if s.DB != nil {
		if err := s.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
