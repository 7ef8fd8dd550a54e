package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through NewOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrOrderIDAlreadyAssigned is returned when the store tries to assign an id twice.
	ErrOrderIDAlreadyAssigned = errors.New("order id is already assigned")
)

// Order is the aggregate created when a customer places an order. It starts in Pending
// and carries the full content of the order; later lifecycle changes work on State and
// Record only.
//
// Order follows these invariants:
//   - delivery orders have a delivery address, pickup orders have none
//   - at least one item, every quantity greater than 0
//   - TotalAmount is the sum of the line totals
//   - ID is zero until the store assigns it, and is assigned once
type Order struct {
	id                  int64
	orderType           Type
	items               []Item
	totalAmount         kernel.Money
	contactDetails      ContactDetails
	deliveryAddress     *DeliveryAddress
	specialInstructions string
	createdAt           time.Time
	createdBy           string

	guard guard.ConstructorGuard
}

// NewOrder validates and assembles a Pending order. Address serviceability and menu
// lookups are the caller's job; NewOrder only checks the structure.
//
// Example:
//
//	contact, _ := order.NewContactDetails("Ada", "0123456789")
//	item, _ := order.NewItem(1, 2, kernel.MustNewMoneyFromString("5"), "")
//	o, err := order.NewOrder(order.Pickup, contact, nil, "", []order.Item{item}, "user-1", now)
func NewOrder(
	orderType Type,
	contactDetails ContactDetails,
	deliveryAddress *DeliveryAddress,
	specialInstructions string,
	items []Item,
	createdBy string,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		createdAt:      createdAt,
		contactDetails: contactDetails,
		guard:          guard.NewConstructorGuard(),
	}

	if err := orderType.Validate(); err != nil {
		return nil, err
	}
	o.orderType = orderType

	if err := errors.Join(
		o.setDeliveryAddress(deliveryAddress),
		o.setItems(items),
		o.setSpecialInstructions(specialInstructions),
		o.setCreatedBy(createdBy),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order was created through NewOrder.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// AssignID records the identifier generated by the store.
func (o *Order) AssignID(id int64) error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("orderId", fmt.Errorf("%d is not positive", id))
	}
	if o.id != 0 {
		return ErrOrderIDAlreadyAssigned
	}
	o.id = id
	return nil
}

func (o *Order) ID() int64 {
	return o.id
}

func (o *Order) Type() Type {
	return o.orderType
}

// Status is always Pending for a freshly placed order.
func (o *Order) Status() Status {
	return Pending
}

func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

func (o *Order) TotalAmount() kernel.Money {
	return o.totalAmount
}

func (o *Order) ContactDetails() ContactDetails {
	return o.contactDetails
}

// DeliveryAddress is nil for pickup orders.
func (o *Order) DeliveryAddress() *DeliveryAddress {
	if o.deliveryAddress == nil {
		return nil
	}
	a := *o.deliveryAddress
	return &a
}

func (o *Order) SpecialInstructions() string {
	return o.specialInstructions
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) CreatedBy() string {
	return o.createdBy
}

// State returns the initial lifecycle state of the order.
func (o *Order) State() State {
	return newState(Pending, o.orderType, o.createdAt, nil, nil, nil)
}

func (o *Order) setDeliveryAddress(address *DeliveryAddress) error {
	switch {
	case o.orderType == Delivery && address == nil:
		return errs.NewValueIsRequiredErrorWithCause(
			"deliveryAddress",
			errors.New("delivery address is required for delivery orders"),
		)
	case o.orderType == Pickup && address != nil:
		return errs.NewValueIsInvalidErrorWithCause(
			"deliveryAddress",
			errors.New("delivery address is not required for pickup orders"),
		)
	}

	if address != nil {
		a := *address
		o.deliveryAddress = &a
	}
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredErrorWithCause("items", errors.New("order must have at least one item"))
	}

	total := kernel.ZeroMoney()
	for _, item := range items {
		if item.quantity <= 0 {
			return errs.NewValueIsInvalidErrorWithCause(
				"quantity",
				fmt.Errorf("%d is not greater than 0", item.quantity),
			)
		}
		total = total.Add(item.LineTotal())
	}

	o.items = make([]Item, len(items))
	copy(o.items, items)
	o.totalAmount = total
	return nil
}

func (o *Order) setSpecialInstructions(s string) error {
	if err := validateInstructions(s); err != nil {
		return err
	}
	o.specialInstructions = s
	return nil
}

func (o *Order) setCreatedBy(actorID string) error {
	if actorID == "" {
		return errs.NewValueIsRequiredError("createdBy")
	}
	o.createdBy = actorID
	return nil
}
