// Package commands contains business operations that modify system state.
// Every order change is written together with its outbox event inside one unit of
// work; the event is handed to the publisher only after the commit succeeded.
package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/outbox"
	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// OutboxRepoFactory provides access to outbox repository within a transaction.
	OutboxRepoFactory interface {
		OutboxRepository() ports.OutboxRepository
	}

	// OrderUoW writes an order change and its outbox event atomically.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   affected, err := uow.OrderRepository().UpdateStatus(ctx, id, state, actor, version)
	//   err = uow.OutboxRepository().Add(ctx, event)
	//
	//   err = uow.Commit(ctx)
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		OutboxRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// OutboxUoW is used by the publisher, which only touches the outbox.
	OutboxUoW interface {
		TxManager
		OutboxRepoFactory
	}

	// OutboxUoWFactory creates new outbox unit of work instances.
	OutboxUoWFactory interface {
		Create() OutboxUoW
	}
)

// EventDispatcher receives committed events for immediate publishing. It never fails the
// caller: an event it could not publish stays in the outbox for the next drain.
type EventDispatcher interface {
	Dispatch(ctx context.Context, event *outbox.Event)
}

// PublisherMetrics counts outbox handoffs.
type PublisherMetrics interface {
	EventPublished(eventType outbox.EventType)
	EventFailed(eventType outbox.EventType)
	// EventNotDeleted counts events the transport accepted that stayed in the outbox.
	EventNotDeleted(eventType outbox.EventType)
}

type noopPublisherMetrics struct{}

func (noopPublisherMetrics) EventPublished(outbox.EventType) {}

func (noopPublisherMetrics) EventFailed(outbox.EventType) {}

func (noopPublisherMetrics) EventNotDeleted(outbox.EventType) {}
