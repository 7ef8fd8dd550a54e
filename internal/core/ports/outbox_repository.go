package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/outbox"
)

// OutboxRepository stores domain events until they are handed to the transport.
type OutboxRepository interface {
	// Add persists a new event and assigns its id.
	Add(ctx context.Context, event *outbox.Event) error

	// ListPending returns every stored event, oldest first.
	ListPending(ctx context.Context) ([]*outbox.Event, error)

	// Delete removes a published event. Deleting an event that is already gone is not
	// an error, so a duplicate delivery never fails the drain.
	Delete(ctx context.Context, event *outbox.Event) error
}
