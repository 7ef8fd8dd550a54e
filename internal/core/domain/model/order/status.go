package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status is the position of an order in its lifecycle graph. Which statuses are
// reachable depends on the order Type; see the lifecycle table in state.go.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Pending is the initial status of every placed order.
	Pending

	// Preparing means the kitchen is working on the order.
	Preparing

	// ReadyForPickup is reached by pickup orders once the kitchen is done.
	ReadyForPickup

	// ReadyForDelivery is reached by delivery orders once the kitchen is done.
	// Delivery staff can only be assigned in this status.
	ReadyForDelivery

	// OutForDelivery means the order left the restaurant.
	OutForDelivery

	// Delivered is terminal.
	Delivered

	// Cancelled is terminal.
	Cancelled

	// UnableToDeliver is terminal.
	UnableToDeliver

	// PickedUp is terminal.
	PickedUp
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:          "Unknown",
		Pending:          "Pending",
		Preparing:        "Preparing",
		ReadyForPickup:   "ReadyForPickup",
		ReadyForDelivery: "ReadyForDelivery",
		OutForDelivery:   "OutForDelivery",
		Delivered:        "Delivered",
		Cancelled:        "Cancelled",
		UnableToDeliver:  "UnableToDeliver",
		PickedUp:         "PickedUp",
	}
}

// AllStatuses lists every valid status in declaration order.
func AllStatuses() []Status {
	return []Status{
		Pending, Preparing, ReadyForPickup, ReadyForDelivery, OutForDelivery,
		Delivered, Cancelled, UnableToDeliver, PickedUp,
	}
}

// Validate checks that s is one of the nine lifecycle statuses.
func (s Status) Validate() error {
	if _, ok := lifecycle[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the status name, or "Unknown" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether s has no outgoing transitions for any order type.
func (s Status) IsTerminal() bool {
	v, ok := lifecycle[s]
	return ok && v.terminal()
}

// ParseStatus converts a name produced by String back into a Status.
func ParseStatus(str string) (Status, error) {
	for _, s := range AllStatuses() {
		if s.String() == str {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", str))
}
