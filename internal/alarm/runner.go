package alarm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/firedock/reportrack-backend/internal/datastore/entities"
	"github.com/firedock/reportrack-backend/internal/datastore/repository"
	"github.com/firedock/reportrack-backend/internal/logger"
	"github.com/firedock/reportrack-backend/internal/observability/metrics"
)

// ErrBatchFatal marks the one unrecoverable batch condition: the active
// alarms could not be enumerated at all. Everything else is contained at
// alarm or recipient scope.
var ErrBatchFatal = errors.New("failed to enumerate active alarms")

const logSeparator = "----------------------------------------------------------------------------------------"

// RunResult is the outcome of one batch pass.
type RunResult struct {
	RunID     string
	RunAt     time.Time
	Logs      []string
	Evaluated int
	Triggered int
}

// Runner walks all active alarms once per invocation, evaluates each in
// sequence, aggregates their trails, and persists a run record.
type Runner struct {
	alarms    repository.AlarmRepository
	runs      repository.AlarmLogRepository
	evaluator *Evaluator
	now       Clock
	log       *zap.Logger
}

// NewRunner creates a Runner. A nil clock means time.Now; a nil logger
// discards operational logs.
func NewRunner(alarms repository.AlarmRepository, runs repository.AlarmLogRepository, evaluator *Evaluator, now Clock, log *zap.Logger) *Runner {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Runner{alarms: alarms, runs: runs, evaluator: evaluator, now: now, log: log}
}

// Run executes one batch pass. Alarms are processed sequentially; a
// failure inside one alarm's evaluation is logged and the pass continues.
// Only a ListActive failure aborts the run, and even then a run record
// capturing the error is persisted. The returned logs are always usable.
func (r *Runner) Run(ctx context.Context) (RunResult, error) {
	started := time.Now()
	result := RunResult{
		RunID: uuid.NewString(),
		RunAt: r.now().UTC(),
	}
	result.Logs = append(result.Logs,
		fmt.Sprintf("[%s] Starting alarm checks (run %s)...", result.RunAt.Format(time.RFC3339), result.RunID))

	alarms, err := r.alarms.ListActive(ctx)
	if err != nil {
		fatal := fmt.Errorf("%w: %w", ErrBatchFatal, err)
		result.Logs = append(result.Logs,
			fmt.Sprintf("[%s] ERROR: %v", r.now().UTC().Format(time.RFC3339), fatal))
		r.persistRun(ctx, &result)
		metrics.ObserveRun("fatal", time.Since(started).Seconds())
		r.log.Error("batch run aborted", zap.String(logger.FieldRunID, result.RunID), zap.Error(err))
		return result, fatal
	}
	result.Logs = append(result.Logs,
		fmt.Sprintf("[%s] Fetched %d active alarms.", r.now().UTC().Format(time.RFC3339), len(alarms)))

	for i := range alarms {
		result.Logs = append(result.Logs, logSeparator)
		outcome := r.evaluateSafe(ctx, &alarms[i])
		result.Logs = append(result.Logs, outcome.Trail.Render()...)
		result.Evaluated++
		if outcome.Triggered {
			result.Triggered++
		}
	}

	result.Logs = append(result.Logs,
		fmt.Sprintf("[%s] Finished processing alarms: %d evaluated, %d triggered.",
			r.now().UTC().Format(time.RFC3339), result.Evaluated, result.Triggered))

	r.persistRun(ctx, &result)
	metrics.ObserveRun("ok", time.Since(started).Seconds())
	r.log.Info("batch run completed",
		zap.String(logger.FieldRunID, result.RunID),
		zap.Int("evaluated", result.Evaluated),
		zap.Int("triggered", result.Triggered))
	return result, nil
}

// evaluateSafe isolates one alarm's evaluation: a panic becomes an
// error-level trail entry and the pass moves on to the next alarm.
func (r *Runner) evaluateSafe(ctx context.Context, a *entities.Alarm) (outcome Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			trail := NewTrail(a.ID, r.now)
			trail.Errorf("Evaluation panicked: %v. Continuing with next alarm.", rec)
			outcome = Outcome{AlarmID: a.ID, SkipReason: SkipPanicked, Trail: trail}
			r.log.Error("alarm evaluation panicked",
				zap.Uint(logger.FieldAlarmID, a.ID), zap.Any("panic", rec))
		}
	}()
	return r.evaluator.Evaluate(ctx, a)
}

// persistRun writes the run record; failure to persist is logged but
// never fails the run, since the logs are also returned to the caller.
func (r *Runner) persistRun(ctx context.Context, result *RunResult) {
	run := &entities.AlarmLog{
		RunID:     result.RunID,
		RunAt:     result.RunAt,
		Logs:      strings.Join(result.Logs, "\n"),
		Evaluated: result.Evaluated,
		Triggered: result.Triggered,
	}
	if err := r.runs.CreateRun(ctx, run); err != nil {
		r.log.Error("failed to persist run record",
			zap.String(logger.FieldRunID, result.RunID), zap.Error(err))
	}
}
