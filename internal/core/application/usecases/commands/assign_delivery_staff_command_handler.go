package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// AssignDeliveryStaffCommandHandler sets the delivery staff of an order. It follows the
// same read, conditional write and publish sequence as ChangeOrderStatusCommandHandler.
type AssignDeliveryStaffCommandHandler struct {
	changer orderChanger
}

// NewAssignDeliveryStaffCommandHandler creates the handler. dispatcher may be nil.
func NewAssignDeliveryStaffCommandHandler(
	uowFactory OrderUoWFactory,
	dispatcher EventDispatcher,
	clock kernel.Clock,
) AssignDeliveryStaffCommandHandler {
	return AssignDeliveryStaffCommandHandler{
		changer: orderChanger{uowFactory: uowFactory, dispatcher: dispatcher, clock: clock},
	}
}

// Handle returns the committed state.
func (h AssignDeliveryStaffCommandHandler) Handle(ctx context.Context, cmd AssignDeliveryStaffCommand) (order.State, error) {
	if err := cmd.Validate(); err != nil {
		return order.State{}, err
	}

	return h.changer.apply(
		ctx,
		cmd.OrderID(),
		cmd.ActorID(),
		func(current order.State, now time.Time) (order.State, error) {
			return current.SetDeliveryStaffID(cmd.StaffID(), now)
		},
		ports.OrderRepository.SetDeliveryStaff,
	)
}
