package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrAssignDeliveryStaffCommandIsNotConstructed = errors.New(
	"AssignDeliveryStaffCommand must be created via NewAssignDeliveryStaffCommand constructor",
)

// AssignDeliveryStaffCommand hands a delivery order that is ready to a member of the
// delivery staff.
type AssignDeliveryStaffCommand struct { //nolint:recvcheck //using for validation
	actorID string
	orderID int64
	staffID string

	guard guard.ConstructorGuard
}

// NewAssignDeliveryStaffCommand validates the actor, the order id and the staff id.
func NewAssignDeliveryStaffCommand(actorID string, orderID int64, staffID string) (AssignDeliveryStaffCommand, error) {
	cmd := AssignDeliveryStaffCommand{
		guard: guard.NewConstructorGuard(),
	}

	if actorID == "" {
		return AssignDeliveryStaffCommand{}, errs.NewUnauthorizedError("actor id is required")
	}
	cmd.actorID = actorID

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setStaffID(staffID),
	); err != nil {
		return AssignDeliveryStaffCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignDeliveryStaffCommand) Validate() error {
	return c.guard.Validate(ErrAssignDeliveryStaffCommandIsNotConstructed)
}

func (c AssignDeliveryStaffCommand) ActorID() string {
	return c.actorID
}

func (c AssignDeliveryStaffCommand) OrderID() int64 {
	return c.orderID
}

func (c AssignDeliveryStaffCommand) StaffID() string {
	return c.staffID
}

func (c *AssignDeliveryStaffCommand) setOrderID(orderID int64) error {
	if orderID <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("orderId", fmt.Errorf("%d is not positive", orderID))
	}
	c.orderID = orderID
	return nil
}

func (c *AssignDeliveryStaffCommand) setStaffID(staffID string) error {
	if staffID == "" {
		return errs.NewValueIsRequiredError("deliveryStaffId")
	}
	c.staffID = staffID
	return nil
}
