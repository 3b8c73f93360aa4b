// Package scheduler runs the alarm batch on a cron cadence. The cadence
// and the kill switch come from the engine settings; when disabled the
// scheduler is constructed but never started.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/firedock/reportrack-backend/internal/alarm"
	"github.com/firedock/reportrack-backend/internal/conf"
	"github.com/firedock/reportrack-backend/internal/logger"
)

// Scheduler drives periodic alarm runs.
type Scheduler struct {
	cron    *cron.Cron
	runner  *alarm.Runner
	timeout time.Duration
	enabled bool
	log     *zap.Logger
}

// New creates a Scheduler from engine settings. Overlapping runs are
// skipped rather than queued; a run that overshoots its slot delays the
// next one instead of stacking up.
func New(settings conf.EngineSettings, runner *alarm.Runner, log *zap.Logger) (*Scheduler, error) {
	if log == nil {
		log = logger.Nop()
	}
	s := &Scheduler{
		runner:  runner,
		timeout: settings.RunTimeout.Std(),
		enabled: settings.Enabled,
		log:     log,
	}
	s.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
		cron.Recover(cron.DiscardLogger),
	))
	if _, err := s.cron.AddFunc(settings.CronSpec, s.tick); err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", settings.CronSpec, err)
	}
	return s, nil
}

// Start begins scheduling. A no-op when the engine is disabled.
func (s *Scheduler) Start() {
	if !s.enabled {
		s.log.Info("alarm engine disabled, scheduler not started")
		return
	}
	s.cron.Start()
	s.log.Info("alarm scheduler started")
}

// Stop halts scheduling and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("alarm scheduler stopped")
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	result, err := s.runner.Run(ctx)
	if err != nil {
		s.log.Error("scheduled alarm run failed",
			zap.String(logger.FieldRunID, result.RunID), zap.Error(err))
	}
}
