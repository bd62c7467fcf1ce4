package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dhima/wx-api/internal/models"
	"github.com/dhima/wx-api/pkg/clock"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ErrInvalidStaleAfter is returned when the staleness window is not positive.
var ErrInvalidStaleAfter = errors.New("stale-after window must be positive")

var scheduleParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Engine periodically fails request log entries that have been PENDING for
// longer than the staleness window, e.g. after a crash mid-request.
type Engine struct {
	spec       string
	schedule   cron.Schedule
	staleAfter time.Duration
	store      StaleMarker
	logger     *zap.Logger
	clock      clock.Clock
}

// NewEngine constructs a reaper running on a cron spec such as "*/5 * * * *"
// or "@every 5m".
func NewEngine(spec string, staleAfter time.Duration, store StaleMarker, logger *zap.Logger) (*Engine, error) {
	return NewEngineWithClock(spec, staleAfter, store, logger, clock.RealClock{})
}

// NewEngineWithClock allows injecting a clock for deterministic cutoffs.
func NewEngineWithClock(spec string, staleAfter time.Duration, store StaleMarker, logger *zap.Logger, c clock.Clock) (*Engine, error) {
	schedule, err := scheduleParser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}
	if staleAfter <= 0 {
		return nil, ErrInvalidStaleAfter
	}
	return &Engine{
		spec:       spec,
		schedule:   schedule,
		staleAfter: staleAfter,
		store:      store,
		logger:     logger.With(zap.String("component", "reaper")),
		clock:      c,
	}, nil
}

// NextRun returns the first activation strictly after from.
func (e *Engine) NextRun(from time.Time) time.Time {
	return e.schedule.Next(from.UTC())
}

// Run executes ReapStale on the schedule until ctx is canceled. A run that
// overlaps the previous one is skipped.
func (e *Engine) Run(ctx context.Context) error {
	runner := cron.New(
		cron.WithParser(scheduleParser),
		cron.WithLocation(time.UTC),
		cron.WithLogger(cronLogger{logger: e.logger}),
		cron.WithChain(cron.Recover(cronLogger{logger: e.logger}), cron.SkipIfStillRunning(cronLogger{logger: e.logger})),
	)
	runner.Schedule(e.schedule, cron.FuncJob(func() {
		_, _ = e.ReapStale(ctx)
	}))

	e.logger.Info("reaper started",
		zap.String("schedule", e.spec),
		zap.Duration("stale_after", e.staleAfter))
	runner.Start()

	<-ctx.Done()
	<-runner.Stop().Done()

	e.logger.Info("reaper stopped")
	return ctx.Err()
}

// ReapStale marks every PENDING entry older than the staleness window as
// FAILED and returns how many were changed.
func (e *Engine) ReapStale(ctx context.Context) (int64, error) {
	cutoff := models.FormatTimestamp(e.clock.Now().Add(-e.staleAfter))

	n, err := e.store.MarkStalePending(ctx, cutoff)
	if err != nil {
		e.logger.Error("failed to mark stale requests",
			zap.String("cutoff", cutoff),
			zap.Error(err))
		return 0, fmt.Errorf("failed to mark stale requests: %w", err)
	}

	if n > 0 {
		e.logger.Warn("marked stale pending requests as failed",
			zap.Int64("count", n),
			zap.String("cutoff", cutoff))
	} else {
		e.logger.Debug("no stale pending requests", zap.String("cutoff", cutoff))
	}
	return n, nil
}

// cronLogger routes cron's runner logs through zap.
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
