package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// OrderLifecycleService is the single entry point for changing orders. It is the only
// place where lifecycle decisions, persistence and event emission meet.
type OrderLifecycleService struct {
	placeOrder          PlaceOrderCommandHandler
	changeOrderStatus   ChangeOrderStatusCommandHandler
	assignDeliveryStaff AssignDeliveryStaffCommandHandler
}

// NewOrderLifecycleService bundles the order command handlers.
func NewOrderLifecycleService(
	placeOrder PlaceOrderCommandHandler,
	changeOrderStatus ChangeOrderStatusCommandHandler,
	assignDeliveryStaff AssignDeliveryStaffCommandHandler,
) *OrderLifecycleService {
	return &OrderLifecycleService{
		placeOrder:          placeOrder,
		changeOrderStatus:   changeOrderStatus,
		assignDeliveryStaff: assignDeliveryStaff,
	}
}

// PlaceOrder creates a Pending order.
func (s *OrderLifecycleService) PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (*order.Order, error) {
	return s.placeOrder.Handle(ctx, cmd)
}

// ChangeStatus transitions an order. A stale concurrency token is reported as
// *errs.ConcurrencyConflictError.
func (s *OrderLifecycleService) ChangeStatus(ctx context.Context, cmd ChangeOrderStatusCommand) (order.State, error) {
	return s.changeOrderStatus.Handle(ctx, cmd)
}

// SetDeliveryStaff assigns delivery staff to a ReadyForDelivery order.
func (s *OrderLifecycleService) SetDeliveryStaff(ctx context.Context, cmd AssignDeliveryStaffCommand) (order.State, error) {
	return s.assignDeliveryStaff.Handle(ctx, cmd)
}
