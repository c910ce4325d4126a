// Package housekeeping runs periodic maintenance jobs. Nothing here touches
// chores; generation only happens when a client asks for it.
package housekeeping

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dukerupert/chorecore/internal/config"
	"github.com/dukerupert/chorecore/internal/database"
	"github.com/dukerupert/chorecore/internal/middleware"
)

const jobTimeout = 5 * time.Minute

// Job is a single maintenance task.
type Job func(ctx context.Context) error

type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

func New(logger *slog.Logger) *Scheduler {
	return &Scheduler{cron: cron.New(), logger: logger}
}

// Add schedules job under spec ("@every 10m", "0 3 * * *"). An empty spec
// leaves the job disabled.
func (s *Scheduler) Add(name, spec string, job Job) error {
	if spec == "" {
		s.logger.Info("job disabled", "job", name)
		return nil
	}
	if _, err := s.cron.AddFunc(spec, func() { s.run(name, job) }); err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	return nil
}

func (s *Scheduler) run(name string, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	if err := job(ctx); err != nil {
		s.logger.Error("job failed", "job", name, "error", err)
		return
	}
	s.logger.Debug("job finished", "job", name, "duration", time.Since(start))
}

// Jobs reports how many jobs are scheduled.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() {
	s.logger.Info("housekeeping started", "jobs", s.Jobs())
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("housekeeping stopped")
}

// LimiterCleanup drops idle rate limiter entries.
func LimiterCleanup(rl *middleware.RateLimiter, logger *slog.Logger) Job {
	return func(context.Context) error {
		remaining := rl.Cleanup()
		logger.Debug("rate limiter cleaned", "remaining", remaining)
		return nil
	}
}

// WALCheckpoint folds the SQLite write-ahead log back into the database file.
func WALCheckpoint(db *sql.DB) Job {
	return func(ctx context.Context) error {
		return database.Checkpoint(ctx, db)
	}
}

// Register schedules the standard jobs from cfg.
func Register(s *Scheduler, cfg config.HousekeepingConfig, db *sql.DB, rl *middleware.RateLimiter) error {
	if err := s.Add("limiter_cleanup", cfg.LimiterCleanup, LimiterCleanup(rl, s.logger)); err != nil {
		return err
	}
	return s.Add("wal_checkpoint", cfg.WALCheckpoint, WALCheckpoint(db))
}
