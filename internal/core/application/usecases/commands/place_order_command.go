package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrPlaceOrderCommandIsNotConstructed = errors.New(
	"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
)

// PlaceOrderItem is one requested line: the price is resolved from the menu catalog.
type PlaceOrderItem struct {
	MenuItemID          int64
	Quantity            int
	SpecialInstructions string
}

// PlaceOrderCommand represents a customer request to place a new order.
//
// Example:
//
//	contact, _ := order.NewContactDetails("Ada", "0123456789")
//	cmd, err := NewPlaceOrderCommand("user-1", order.Pickup, contact, nil, "", []PlaceOrderItem{
//	    {MenuItemID: 1, Quantity: 2},
//	})
//	if err != nil {
//	    return err
//	}
//	placed, err := handler.Handle(ctx, cmd)
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	actorID             string
	orderType           order.Type
	contactDetails      order.ContactDetails
	deliveryAddress     *order.DeliveryAddress
	specialInstructions string
	items               []PlaceOrderItem

	guard guard.ConstructorGuard
}

// NewPlaceOrderCommand checks the shape of the request: an actor, a known order type,
// an address exactly for delivery orders and at least one line with a positive quantity.
func NewPlaceOrderCommand(
	actorID string,
	orderType order.Type,
	contactDetails order.ContactDetails,
	deliveryAddress *order.DeliveryAddress,
	specialInstructions string,
	items []PlaceOrderItem,
) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{
		contactDetails:      contactDetails,
		specialInstructions: specialInstructions,
		guard:               guard.NewConstructorGuard(),
	}

	if actorID == "" {
		return PlaceOrderCommand{}, errs.NewUnauthorizedError("actor id is required")
	}
	cmd.actorID = actorID

	if err := orderType.Validate(); err != nil {
		return PlaceOrderCommand{}, err
	}
	cmd.orderType = orderType

	if err := errors.Join(
		cmd.setDeliveryAddress(deliveryAddress),
		cmd.setItems(items),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

func (c PlaceOrderCommand) ActorID() string {
	return c.actorID
}

func (c PlaceOrderCommand) OrderType() order.Type {
	return c.orderType
}

func (c PlaceOrderCommand) ContactDetails() order.ContactDetails {
	return c.contactDetails
}

// DeliveryAddress is nil for pickup orders.
func (c PlaceOrderCommand) DeliveryAddress() *order.DeliveryAddress {
	if c.deliveryAddress == nil {
		return nil
	}
	a := *c.deliveryAddress
	return &a
}

func (c PlaceOrderCommand) SpecialInstructions() string {
	return c.specialInstructions
}

func (c PlaceOrderCommand) Items() []PlaceOrderItem {
	items := make([]PlaceOrderItem, len(c.items))
	copy(items, c.items)
	return items
}

// MenuItemIDs returns each referenced menu item once, in request order.
func (c PlaceOrderCommand) MenuItemIDs() []int64 {
	seen := make(map[int64]struct{}, len(c.items))
	ids := make([]int64, 0, len(c.items))
	for _, item := range c.items {
		if _, ok := seen[item.MenuItemID]; ok {
			continue
		}
		seen[item.MenuItemID] = struct{}{}
		ids = append(ids, item.MenuItemID)
	}
	return ids
}

func (c *PlaceOrderCommand) setDeliveryAddress(address *order.DeliveryAddress) error {
	switch {
	case c.orderType == order.Delivery && address == nil:
		return errs.NewValueIsRequiredErrorWithCause(
			"deliveryAddress",
			errors.New("delivery address is required for delivery orders"),
		)
	case c.orderType == order.Pickup && address != nil:
		return errs.NewValueIsInvalidErrorWithCause(
			"deliveryAddress",
			errors.New("delivery address is not required for pickup orders"),
		)
	}

	if address != nil {
		a := *address
		c.deliveryAddress = &a
	}
	return nil
}

func (c *PlaceOrderCommand) setItems(items []PlaceOrderItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredErrorWithCause("items", errors.New("order must have at least one item"))
	}

	for _, item := range items {
		if item.Quantity <= 0 {
			return errs.NewValueIsInvalidErrorWithCause(
				"quantity",
				fmt.Errorf("menu item %d: %d is not greater than 0", item.MenuItemID, item.Quantity),
			)
		}
	}

	c.items = make([]PlaceOrderItem, len(items))
	copy(c.items, items)
	return nil
}
