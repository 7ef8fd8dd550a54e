// Package ports defines the contracts between the order fulfillment core and its
// infrastructure: the persistence contract with optimistic concurrency, the outbox and
// the external collaborators (menu catalog, address validation, event transport).
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository is the persistence contract for orders.
//
// Every write is conditioned on the concurrency token read together with the order.
// The returned affected count is 0 when the order vanished or the token is stale, and
// 1 on success; any other value means the store is broken.
type OrderRepository interface {
	// Create persists a new order with its items, assigns its id through AssignID and
	// returns the stored basic record including the first concurrency token.
	Create(ctx context.Context, o *order.Order) (order.Record, error)

	// GetBasic loads the basic record of an order.
	// Returns *errs.ObjectNotFoundError when the order does not exist.
	GetBasic(ctx context.Context, id int64) (order.Record, error)

	// UpdateStatus writes status, fulfillment time and update audit fields from state
	// if the stored token still equals expectedVersion.
	UpdateStatus(
		ctx context.Context,
		id int64,
		state order.State,
		updatedBy string,
		expectedVersion []byte,
	) (int64, error)

	// SetDeliveryStaff writes the delivery staff and update audit fields from state
	// if the stored token still equals expectedVersion.
	SetDeliveryStaff(
		ctx context.Context,
		id int64,
		state order.State,
		updatedBy string,
		expectedVersion []byte,
	) (int64, error)
}
