package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// OutboxDrainer is implemented by *commands.PublishOutboxEventsCommandHandler.
type OutboxDrainer interface {
	Handle(ctx context.Context, cmd commands.PublishOutboxEventsCommand) (commands.PublishOutboxEventsResult, error)
}

// OutboxPublisherJob drains the outbox on a fixed interval. A drain that is still running
// when the next tick fires makes that tick a no-op.
type OutboxPublisherJob struct {
	drainer        OutboxDrainer
	interval       time.Duration
	maxParallelism int

	cron   *cron.Cron
	job    cron.Job
	logger *slog.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	running sync.WaitGroup
}

// NewOutboxPublisherJob creates the drain job. The first drain starts right after Start.
func NewOutboxPublisherJob(
	drainer OutboxDrainer,
	interval time.Duration,
	maxParallelism int,
	logger *slog.Logger,
) (*OutboxPublisherJob, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("outbox interval must be positive, got %s", interval)
	}
	if _, err := commands.NewPublishOutboxEventsCommand(maxParallelism); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "outbox_publisher_job")

	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelWarn))
	ctx, cancel := context.WithCancel(context.Background())

	j := &OutboxPublisherJob{
		drainer:        drainer,
		interval:       interval,
		maxParallelism: maxParallelism,
		cron:           cron.New(cron.WithLogger(cronLogger)),
		logger:         logger,
		ctx:            ctx,
		cancel:         cancel,
	}
	j.job = cron.NewChain(cron.SkipIfStillRunning(cronLogger)).Then(cron.FuncJob(j.run))

	return j, nil
}

// Start schedules the drain and triggers the first one immediately.
func (j *OutboxPublisherJob) Start() error {
	if err := j.ctx.Err(); err != nil {
		return fmt.Errorf("outbox publisher job was stopped: %w", err)
	}

	j.cron.Schedule(cron.Every(j.interval), j.job)
	j.cron.Start()

	j.running.Add(1)
	go func() {
		defer j.running.Done()
		j.job.Run()
	}()

	j.logger.InfoContext(j.ctx, "Outbox publisher job started", "interval", j.interval.String())
	return nil
}

// Stop cancels the drain in flight and waits for it to return.
func (j *OutboxPublisherJob) Stop() {
	j.cancel()
	<-j.cron.Stop().Done()
	j.running.Wait()
	j.logger.Info("Outbox publisher job stopped")
}

func (j *OutboxPublisherJob) run() {
	cmd, err := commands.NewPublishOutboxEventsCommand(j.maxParallelism)
	if err != nil {
		j.logger.ErrorContext(j.ctx, "Outbox publisher job misconfigured", "error", err)
		return
	}

	result, err := j.drainer.Handle(j.ctx, cmd)
	if err != nil {
		if j.ctx.Err() != nil {
			j.logger.Info("Outbox drain interrupted by shutdown", "published", result.Published)
			return
		}
		j.logger.ErrorContext(j.ctx, "Outbox publisher job failed", "error", err)
		return
	}

	if result.Pending > 0 {
		j.logger.InfoContext(j.ctx, "Outbox drained",
			"pending", result.Pending,
			"published", result.Published,
			"failed", result.Failed,
			"undeleted", result.Undeleted,
		)
	}
}
