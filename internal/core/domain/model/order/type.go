package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Type selects the lifecycle graph of an order. It is fixed at creation.
type Type int

const (
	// UnknownType catches uninitialized values.
	UnknownType Type = iota

	// Pickup orders are collected by the customer at the restaurant.
	Pickup

	// Delivery orders are taken to the customer's address by delivery staff.
	Delivery
)

func getTypeStrings() map[Type]string {
	return map[Type]string{
		Pickup:   "Pickup",
		Delivery: "Delivery",
	}
}

// Validate reports whether t is Pickup or Delivery.
func (t Type) Validate() error {
	if _, ok := getTypeStrings()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("type is invalid", fmt.Errorf("%d is not a valid order type", t))
	}
	return nil
}

func (t Type) String() string {
	if str, ok := getTypeStrings()[t]; ok {
		return str
	}
	return "Unknown"
}

// ParseType converts a name produced by String back into a Type.
func ParseType(s string) (Type, error) {
	for t, str := range getTypeStrings() {
		if str == s {
			return t, nil
		}
	}
	return UnknownType, errs.NewValueIsInvalidErrorWithCause("type is invalid", fmt.Errorf("%q is not a valid order type", s))
}
