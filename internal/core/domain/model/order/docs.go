// Package order provides the order aggregate and its lifecycle state machine.
//
// The package includes:
//   - Type and Status: the two enums that select a lifecycle graph and a node in it
//   - Record: the flat persisted projection of an order, including its concurrency token
//   - State: the immutable lifecycle state; every change produces a new State
//   - Restore: rebuilds a State from a Record and rejects corrupted (type, status) pairs
//   - Order, Item, ContactDetails, DeliveryAddress: the aggregate built when an order is placed
//
// Lifecycle graphs:
//
//	Pickup:   Pending ─> Preparing ─> ReadyForPickup ─> PickedUp
//	             │           │
//	             └───────────┴─> Cancelled
//
//	Delivery: Pending ─> Preparing ─> ReadyForDelivery ─> OutForDelivery ─> Delivered
//	             │           │                                  │
//	             └───────────┴─> Cancelled                      └─> UnableToDeliver
//
// Business-rule violations (illegal transition, duplicate staff assignment) are returned as
// errors and leave the current State untouched. A State whose type does not fit its status can
// only come from corrupted storage and causes a panic with *errs.IntegrityViolationError.
package order
