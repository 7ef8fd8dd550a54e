package order

import (
	"fmt"
	"math"
	"slices"
	"time"

	"fulfillment/internal/pkg/errs"
)

// variant describes one arm of the State sum type: the order types a status is legal for,
// its outgoing edges per type and whether delivery staff may be assigned while in it.
type variant struct {
	types                []Type
	next                 map[Type][]Status
	acceptsDeliveryStaff bool
}

func (v variant) terminal() bool {
	for _, edges := range v.next {
		if len(edges) > 0 {
			return false
		}
	}
	return true
}

func (v variant) allows(t Type) bool {
	return slices.Contains(v.types, t)
}

// lifecycle is the complete transition table. A status missing here is unknown; an edge
// missing here is illegal.
var lifecycle = map[Status]variant{
	Pending: {
		types: []Type{Pickup, Delivery},
		next: map[Type][]Status{
			Pickup:   {Preparing, Cancelled},
			Delivery: {Preparing, Cancelled},
		},
	},
	Preparing: {
		types: []Type{Pickup, Delivery},
		next: map[Type][]Status{
			Pickup:   {ReadyForPickup, Cancelled},
			Delivery: {ReadyForDelivery, Cancelled},
		},
	},
	ReadyForPickup: {
		types: []Type{Pickup},
		next:  map[Type][]Status{Pickup: {PickedUp}},
	},
	ReadyForDelivery: {
		types:                []Type{Delivery},
		next:                 map[Type][]Status{Delivery: {OutForDelivery}},
		acceptsDeliveryStaff: true,
	},
	OutForDelivery: {
		types: []Type{Delivery},
		next:  map[Type][]Status{Delivery: {Delivered, UnableToDeliver}},
	},
	Delivered:       {types: []Type{Delivery}},
	Cancelled:       {types: []Type{Pickup, Delivery}},
	UnableToDeliver: {types: []Type{Delivery}},
	PickedUp:        {types: []Type{Pickup}},
}

// State is the immutable lifecycle state of one order. Transition and SetDeliveryStaffID
// never modify the receiver; on success they return a new State, on failure they return
// the receiver unchanged together with the reason.
type State struct {
	status                 Status
	orderType              Type
	createdAt              time.Time
	updatedAt              *time.Time
	deliveryStaffID        *string
	fulfillmentTimeMinutes *int
}

// newState is the single constructor behind every State. It panics when the status is
// unknown or not legal for the order type.
func newState(
	status Status,
	orderType Type,
	createdAt time.Time,
	updatedAt *time.Time,
	deliveryStaffID *string,
	fulfillmentTimeMinutes *int,
) State {
	v, ok := lifecycle[status]
	if !ok {
		panic(errs.NewIntegrityViolationError("status %d has no lifecycle variant", status))
	}
	if !v.allows(orderType) {
		panic(errs.NewIntegrityViolationError("status %s is not valid for order type %s", status, orderType))
	}

	return State{
		status:                 status,
		orderType:              orderType,
		createdAt:              createdAt,
		updatedAt:              cloneTime(updatedAt),
		deliveryStaffID:        cloneString(deliveryStaffID),
		fulfillmentTimeMinutes: cloneInt(fulfillmentTimeMinutes),
	}
}

// Status returns the current lifecycle status.
func (s State) Status() Status {
	return s.status
}

// Type returns the order type.
func (s State) Type() Type {
	return s.orderType
}

// CreatedAt returns the placement time.
func (s State) CreatedAt() time.Time {
	return s.createdAt
}

// UpdatedAt returns the time of the last change, nil for an untouched order.
func (s State) UpdatedAt() *time.Time {
	return cloneTime(s.updatedAt)
}

// DeliveryStaffID returns the assigned delivery staff, nil if none.
func (s State) DeliveryStaffID() *string {
	return cloneString(s.deliveryStaffID)
}

// FulfillmentTimeMinutes is set once, on entry into a terminal status.
func (s State) FulfillmentTimeMinutes() *int {
	return cloneInt(s.fulfillmentTimeMinutes)
}

// AllowedTransitions lists the statuses reachable in one step.
func (s State) AllowedTransitions() []Status {
	return slices.Clone(lifecycle[s.status].next[s.orderType])
}

// Transition moves the order to target at the given instant.
//
// Rules:
//   - target must be an outgoing edge of the current status for the order type
//   - a self-transition is always rejected
//   - entering a terminal status fixes FulfillmentTimeMinutes to the whole minutes
//     between CreatedAt and at
//
// Example:
//
//	next, err := state.Transition(order.Preparing, clock.Now())
//	if err != nil {
//	    // state is unchanged, err is *errs.ValueIsInvalidError
//	}
func (s State) Transition(target Status, at time.Time) (State, error) {
	if target == s.status {
		return s, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("status is already set to %s", s.status),
		)
	}

	if !slices.Contains(lifecycle[s.status].next[s.orderType], target) {
		return s, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("invalid state transition from %s to %s for type %s", s.status, target, s.orderType),
		)
	}

	var fulfillment *int
	if target.IsTerminal() {
		minutes := int(math.Floor(at.Sub(s.createdAt).Minutes()))
		fulfillment = &minutes
	}

	return newState(target, s.orderType, s.createdAt, &at, s.deliveryStaffID, fulfillment), nil
}

// SetDeliveryStaffID assigns delivery staff at the given instant. It is only legal for
// delivery orders in ReadyForDelivery, and re-assigning the staff already on the order
// is rejected.
func (s State) SetDeliveryStaffID(staffID string, at time.Time) (State, error) {
	if staffID == "" {
		return s, errs.NewValueIsRequiredError("deliveryStaffId")
	}

	if s.orderType != Delivery {
		return s, errs.NewValueIsInvalidErrorWithCause(
			"deliveryStaffId",
			fmt.Errorf("delivery staff is not required for %s orders", s.orderType),
		)
	}

	if !lifecycle[s.status].acceptsDeliveryStaff {
		return s, errs.NewValueIsInvalidErrorWithCause(
			"deliveryStaffId",
			fmt.Errorf("delivery staff can only be assigned to orders with status %s, order is %s",
				ReadyForDelivery, s.status),
		)
	}

	if s.deliveryStaffID != nil && *s.deliveryStaffID == staffID {
		return s, errs.NewValueIsInvalidErrorWithCause(
			"deliveryStaffId",
			fmt.Errorf("delivery staff %s is already assigned to the order", staffID),
		)
	}

	return newState(s.status, s.orderType, s.createdAt, &at, &staffID, s.fulfillmentTimeMinutes), nil
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
