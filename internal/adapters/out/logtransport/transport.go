// Package logtransport writes order events to a structured log instead of a broker.
// It is meant for local runs and for deployments without a message broker.
package logtransport

import (
	"context"
	"errors"
	"log/slog"

	"fulfillment/internal/core/domain/model/outbox"
)

// Transport implements ports.EventTransport by logging every event at INFO.
type Transport struct {
	logger *slog.Logger
}

func NewTransport(logger *slog.Logger) *Transport {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transport{logger: logger.With("component", "event-log-transport")}
}

func (t *Transport) Publish(ctx context.Context, event *outbox.Event) error {
	if event == nil {
		return errors.New("event is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	t.logger.InfoContext(ctx, "order event",
		"event_id", event.EventID().String(),
		"event_type", event.EventType().String(),
		"order_id", event.OrderID(),
		"payload", string(event.Payload()),
	)
	return nil
}
