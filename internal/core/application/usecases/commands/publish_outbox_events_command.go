package commands

import (
	"errors"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrPublishOutboxEventsCommandIsNotConstructed = errors.New(
	"PublishOutboxEventsCommand must be created via NewPublishOutboxEventsCommand constructor",
)

// PublishOutboxEventsCommand drains the outbox once with at most maxParallelism
// concurrent publishers.
type PublishOutboxEventsCommand struct {
	maxParallelism int

	guard guard.ConstructorGuard
}

// NewPublishOutboxEventsCommand requires a positive degree of parallelism.
func NewPublishOutboxEventsCommand(maxParallelism int) (PublishOutboxEventsCommand, error) {
	if maxParallelism < 1 {
		return PublishOutboxEventsCommand{}, errs.NewValueIsOutOfRangeError(
			"maxParallelism", maxParallelism, 1, "unbounded")
	}

	return PublishOutboxEventsCommand{
		maxParallelism: maxParallelism,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c PublishOutboxEventsCommand) Validate() error {
	return c.guard.Validate(ErrPublishOutboxEventsCommandIsNotConstructed)
}

func (c PublishOutboxEventsCommand) MaxParallelism() int {
	return c.maxParallelism
}
