package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// ChangeOrderStatusCommandHandler transitions an order and records an Updated event.
//
// The write is conditioned on the concurrency token read in the same call. When another
// writer got there first the handler returns *errs.ConcurrencyConflictError; it does not
// retry on its own.
type ChangeOrderStatusCommandHandler struct {
	changer orderChanger
}

// NewChangeOrderStatusCommandHandler creates the handler. dispatcher may be nil, in which
// case events wait for the outbox drain.
func NewChangeOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	dispatcher EventDispatcher,
	clock kernel.Clock,
) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		changer: orderChanger{uowFactory: uowFactory, dispatcher: dispatcher, clock: clock},
	}
}

// Handle returns the committed state.
func (h ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) (order.State, error) {
	if err := cmd.Validate(); err != nil {
		return order.State{}, err
	}

	return h.changer.apply(
		ctx,
		cmd.OrderID(),
		cmd.ActorID(),
		func(current order.State, now time.Time) (order.State, error) {
			return current.Transition(cmd.TargetStatus(), now)
		},
		ports.OrderRepository.UpdateStatus,
	)
}
