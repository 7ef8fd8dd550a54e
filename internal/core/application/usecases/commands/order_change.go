package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/outbox"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// conditionalWrite is one of the token-conditioned writes of ports.OrderRepository.
type conditionalWrite func(
	repo ports.OrderRepository,
	ctx context.Context,
	id int64,
	state order.State,
	updatedBy string,
	expectedVersion []byte,
) (int64, error)

// orderChanger runs the read, decide, conditionally write, publish sequence shared by
// every change of an existing order.
type orderChanger struct {
	uowFactory OrderUoWFactory
	dispatcher EventDispatcher
	clock      kernel.Clock
}

func (c orderChanger) apply(
	ctx context.Context,
	orderID int64,
	actorID string,
	decide func(current order.State, now time.Time) (order.State, error),
	write conditionalWrite,
) (order.State, error) {
	now := c.clock.Now()

	uow := c.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return order.State{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := uow.OrderRepository()
	rec, err := orders.GetBasic(ctx, orderID)
	if err != nil {
		return order.State{}, err
	}

	next, err := decide(order.Restore(rec), now)
	if err != nil {
		return order.State{}, err
	}

	event, err := outbox.NewOrderUpdatedEvent(rec.ID, next, actorID, now)
	if err != nil {
		return order.State{}, err
	}

	affected, err := write(orders, ctx, rec.ID, next, actorID, rec.Version)
	if err != nil {
		return order.State{}, err
	}
	if err = requireSingleRow(rec.ID, affected); err != nil {
		return order.State{}, err
	}

	if err = uow.OutboxRepository().Add(ctx, event); err != nil {
		return order.State{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return order.State{}, err
	}

	if c.dispatcher != nil {
		c.dispatcher.Dispatch(ctx, event)
	}

	return next, nil
}

// requireSingleRow interprets the affected count of a write conditioned on id and token.
// Zero means the order is gone or the token is stale. More than one row cannot match a
// primary key, so the process is stopped loudly instead of reporting success.
func requireSingleRow(orderID, affected int64) error {
	switch {
	case affected == 1:
		return nil
	case affected == 0:
		return errs.NewConcurrencyConflictError("order", orderID)
	default:
		panic(errs.NewIntegrityViolationError(
			"conditional write of order %d affected %d rows", orderID, affected))
	}
}
