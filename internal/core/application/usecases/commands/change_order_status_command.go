package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
)

// ChangeOrderStatusCommand moves an existing order along its lifecycle graph.
//
// Example:
//
//	cmd, err := NewChangeOrderStatusCommand("user-1", 42, order.Preparing)
//	if err != nil {
//	    return err
//	}
//	state, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrConcurrencyConflict) {
//	    // reload and decide again
//	}
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	actorID      string
	orderID      int64
	targetStatus order.Status

	guard guard.ConstructorGuard
}

// NewChangeOrderStatusCommand validates the actor, the order id and the target status.
func NewChangeOrderStatusCommand(actorID string, orderID int64, targetStatus order.Status) (ChangeOrderStatusCommand, error) {
	cmd := ChangeOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if actorID == "" {
		return ChangeOrderStatusCommand{}, errs.NewUnauthorizedError("actor id is required")
	}
	cmd.actorID = actorID

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTargetStatus(targetStatus),
	); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

func (c ChangeOrderStatusCommand) ActorID() string {
	return c.actorID
}

func (c ChangeOrderStatusCommand) OrderID() int64 {
	return c.orderID
}

func (c ChangeOrderStatusCommand) TargetStatus() order.Status {
	return c.targetStatus
}

func (c *ChangeOrderStatusCommand) setOrderID(orderID int64) error {
	if orderID <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("orderId", fmt.Errorf("%d is not positive", orderID))
	}
	c.orderID = orderID
	return nil
}

func (c *ChangeOrderStatusCommand) setTargetStatus(status order.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	c.targetStatus = status
	return nil
}
