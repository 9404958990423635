package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"content_ingester/internal/domain"
	"content_ingester/internal/metrics"
)

type DriverConfig struct {
	Schedule   string
	RunOnStart bool
	RunTimeout time.Duration
}

// Driver fires a Runner on a cron schedule. Runs never overlap: a firing
// that comes due while a run is in progress is skipped, and Trigger waits
// for the current run to finish.
type Driver struct {
	runner Runner
	cfg    DriverConfig
	cron   *cron.Cron
	runMu  sync.Mutex
	logger *slog.Logger
}

func NewDriver(runner Runner, cfg DriverConfig, logger *slog.Logger) (*Driver, error) {
	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", cfg.Schedule, err)
	}

	logger = logger.With("component", "driver")
	cl := cronLogger{logger: logger}

	return &Driver{
		runner: runner,
		cfg:    cfg,
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger: logger,
	}, nil
}

// Start registers the scheduled run and blocks until ctx is done, then
// waits for any in-flight run to return.
func (d *Driver) Start(ctx context.Context) error {
	id, err := d.cron.AddFunc(d.cfg.Schedule, func() { d.runScheduled(ctx) })
	if err != nil {
		return fmt.Errorf("add schedule: %w", err)
	}

	d.cron.Start()
	d.logger.Info("driver started", "schedule", d.cfg.Schedule, "run_on_start", d.cfg.RunOnStart)

	var initial sync.WaitGroup
	if d.cfg.RunOnStart {
		// The wrapped job goes through the same chain as scheduled firings.
		job := d.cron.Entry(id).WrappedJob
		initial.Add(1)
		go func() {
			defer initial.Done()
			job.Run()
		}()
	}

	<-ctx.Done()
	<-d.Stop().Done()
	initial.Wait()
	d.logger.Info("driver stopped")

	return ctx.Err()
}

// Stop halts the schedule. The returned context is done once running jobs
// have completed.
func (d *Driver) Stop() context.Context {
	return d.cron.Stop()
}

// Trigger runs the full scheduler now, outside the cadence, and returns its
// report. A panic inside the run is returned as an error.
func (d *Driver) Trigger(ctx context.Context) (report *domain.RunReport, err error) {
	d.runMu.Lock()
	defer d.runMu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			metrics.RunFailures.Inc()
			report, err = nil, fmt.Errorf("run panicked: %v", r)
		}
	}()

	if d.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.RunTimeout)
		defer cancel()
	}

	start := time.Now()
	defer metrics.ObserveRun(start)

	report, err = d.runner.RunAll(ctx)
	if err != nil {
		metrics.RunFailures.Inc()
		return nil, err
	}

	return report, nil
}

func (d *Driver) runScheduled(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	report, err := d.Trigger(ctx)
	if err != nil {
		d.logger.Error("scheduled run failed", "error", err)
		return
	}

	d.logger.Info("scheduled run finished",
		"stored", report.Stored(),
		"failures", report.Failures(),
		"duration", report.Duration,
	)
}

// cronLogger routes cron's own logging through slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
