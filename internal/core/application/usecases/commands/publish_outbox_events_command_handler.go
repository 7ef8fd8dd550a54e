package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"fulfillment/internal/core/domain/model/outbox"
	"fulfillment/internal/core/ports"

	"golang.org/x/sync/errgroup"
)

// PublishOutboxEventsResult summarizes one drain. Published counts events the transport
// accepted and that left the outbox, Failed counts events the transport rejected, and
// Undeleted counts events the transport accepted that are still in the outbox.
type PublishOutboxEventsResult struct {
	Pending   int
	Published int
	Failed    int
	Undeleted int
}

type publishOutcome int

const (
	outcomeDeleted publishOutcome = iota
	outcomeRejected
	outcomeUndeleted
	outcomeInterrupted
)

// PublishOutboxEventsCommandHandler hands outbox events to the transport and deletes
// each one after the transport accepted it.
//
// A drain loads every pending event oldest first and partitions them by order id into
// at most MaxParallelism chunks. Chunks run concurrently, the events of one chunk run
// sequentially, so events of the same order keep their relative order. A failed event
// stays in the outbox and the drain continues with the next one.
//
// Example:
//
//	handler := NewPublishOutboxEventsCommandHandler(uowFactory, transport, metrics, logger)
//	cmd, _ := NewPublishOutboxEventsCommand(10)
//	result, err := handler.Handle(ctx, cmd)
type PublishOutboxEventsCommandHandler struct {
	uowFactory OutboxUoWFactory
	transport  ports.EventTransport
	metrics    PublisherMetrics
	logger     *slog.Logger
}

// NewPublishOutboxEventsCommandHandler creates the handler. metrics and logger may be nil.
func NewPublishOutboxEventsCommandHandler(
	uowFactory OutboxUoWFactory,
	transport ports.EventTransport,
	metrics PublisherMetrics,
	logger *slog.Logger,
) *PublishOutboxEventsCommandHandler {
	if metrics == nil {
		metrics = noopPublisherMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PublishOutboxEventsCommandHandler{
		uowFactory: uowFactory,
		transport:  transport,
		metrics:    metrics,
		logger:     logger.With("component", "outbox-publisher"),
	}
}

// Handle runs one drain. It only returns an error when the pending events cannot be
// loaded or ctx is cancelled; on cancellation the events not yet reached stay in the
// outbox for the next drain.
func (h *PublishOutboxEventsCommandHandler) Handle(
	ctx context.Context,
	cmd PublishOutboxEventsCommand,
) (PublishOutboxEventsResult, error) {
	if err := cmd.Validate(); err != nil {
		return PublishOutboxEventsResult{}, err
	}

	events, err := h.uowFactory.Create().OutboxRepository().ListPending(ctx)
	if err != nil {
		return PublishOutboxEventsResult{}, fmt.Errorf("list pending outbox events: %w", err)
	}

	result := PublishOutboxEventsResult{Pending: len(events)}
	if len(events) == 0 {
		return result, nil
	}

	var published, failed, undeleted atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	for _, chunk := range partitionByOrder(events, cmd.MaxParallelism()) {
		g.Go(func() error {
			for _, event := range chunk {
				if err := gctx.Err(); err != nil {
					return err
				}

				switch h.publish(gctx, event) {
				case outcomeDeleted:
					published.Add(1)
				case outcomeRejected:
					failed.Add(1)
				case outcomeUndeleted:
					undeleted.Add(1)
				case outcomeInterrupted:
				}
			}
			return nil
		})
	}

	err = g.Wait()
	result.Published = int(published.Load())
	result.Failed = int(failed.Load())
	result.Undeleted = int(undeleted.Load())

	if err != nil {
		return result, fmt.Errorf("outbox drain interrupted: %w", err)
	}

	h.logger.InfoContext(ctx, "outbox drained",
		"pending", result.Pending,
		"published", result.Published,
		"failed", result.Failed,
		"undeleted", result.Undeleted,
	)

	return result, nil
}

// Dispatch publishes a freshly committed event right away. Failures are only logged,
// the drain picks the event up later.
func (h *PublishOutboxEventsCommandHandler) Dispatch(ctx context.Context, event *outbox.Event) {
	h.publish(ctx, event)
}

// publish hands one event to the transport and removes it from the outbox. Work cut
// short by ctx is neither a transport nor a store failure: the event simply stays for the
// next drain.
func (h *PublishOutboxEventsCommandHandler) publish(ctx context.Context, event *outbox.Event) publishOutcome {
	if err := h.transport.Publish(ctx, event); err != nil {
		if interrupted(ctx, err) {
			h.logger.InfoContext(ctx, "outbox event publish interrupted",
				"event_id", event.EventID().String(),
				"order_id", event.OrderID(),
			)
			return outcomeInterrupted
		}

		h.metrics.EventFailed(event.EventType())
		h.logger.ErrorContext(ctx, "failed to publish outbox event",
			"event_id", event.EventID().String(),
			"order_id", event.OrderID(),
			"error", err,
		)
		return outcomeRejected
	}
	h.metrics.EventPublished(event.EventType())

	if err := h.uowFactory.Create().OutboxRepository().Delete(ctx, event); err != nil {
		h.metrics.EventNotDeleted(event.EventType())
		h.logger.WarnContext(ctx, "published outbox event was not deleted and will be published again",
			"event_id", event.EventID().String(),
			"order_id", event.OrderID(),
			"error", err,
		)
		return outcomeUndeleted
	}

	return outcomeDeleted
}

func interrupted(ctx context.Context, err error) bool {
	return ctx.Err() != nil ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// partitionByOrder splits events into at most n chunks keyed by order id. The relative
// order of events inside a chunk is the order of the input.
func partitionByOrder(events []*outbox.Event, n int) [][]*outbox.Event {
	buckets := make([][]*outbox.Event, n)
	for _, event := range events {
		i := int(event.OrderID() % int64(n))
		if i < 0 {
			i = -i
		}
		buckets[i] = append(buckets[i], event)
	}

	chunks := make([][]*outbox.Event, 0, n)
	for _, bucket := range buckets {
		if len(bucket) > 0 {
			chunks = append(chunks, bucket)
		}
	}
	return chunks
}
