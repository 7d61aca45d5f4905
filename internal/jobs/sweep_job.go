package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"takeout/internal/core/application/usecases/commands"
	"takeout/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

type sweepRunner interface {
	Handle(ctx context.Context, cmd commands.SweepOrdersCommand) (commands.SweepResult, error)
}

// sweepJob fires one reconciliation command on a cron schedule. A pass that
// is still running when the next tick comes is skipped, not queued.
type sweepJob struct {
	name     string
	schedule string
	command  func() (commands.SweepOrdersCommand, error)
	handler  sweepRunner
	metrics  *metrics.Metrics
	cron     *cron.Cron
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

func newSweepJob(
	name, schedule string,
	command func() (commands.SweepOrdersCommand, error),
	handler sweepRunner,
	m *metrics.Metrics,
	logger *slog.Logger,
) *sweepJob {
	logger = logger.With("component", name+"_job")
	cronLogger := NewCronLogger(logger)
	ctx, cancel := context.WithCancel(context.Background())
	return &sweepJob{
		name:     name,
		schedule: schedule,
		command:  command,
		handler:  handler,
		metrics:  m,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start validates the command and schedule before anything is scheduled.
func (j *sweepJob) Start() error {
	cmd, err := j.command()
	if err != nil {
		return err
	}
	if _, err = j.cron.AddFunc(j.schedule, func() { j.run(j.ctx, cmd) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(j.ctx, "sweep job started",
		"schedule", j.schedule, "status", cmd.Status().String(), "grace", cmd.Grace().String())
	return nil
}

// Stop cancels a pass in flight and waits for it to return.
func (j *sweepJob) Stop() {
	j.once.Do(func() {
		j.cancel()
		<-j.cron.Stop().Done()
		j.logger.InfoContext(context.Background(), "sweep job stopped")
	})
}

// RunOnce runs a single pass outside the schedule.
func (j *sweepJob) RunOnce(ctx context.Context) (commands.SweepResult, error) {
	cmd, err := j.command()
	if err != nil {
		return commands.SweepResult{}, err
	}
	return j.run(ctx, cmd)
}

func (j *sweepJob) run(ctx context.Context, cmd commands.SweepOrdersCommand) (commands.SweepResult, error) {
	start := time.Now()
	res, err := j.handler.Handle(ctx, cmd)
	if j.metrics != nil {
		j.metrics.ObserveSweep(j.name, metrics.SweepOutcome{
			Transitioned: res.Transitioned,
			Skipped:      res.Skipped,
			Failed:       res.Failed,
			Err:          err,
			Duration:     time.Since(start),
		})
	}
	if err != nil {
		j.logger.ErrorContext(ctx, "sweep pass failed", "error", err)
	}
	return res, err
}
