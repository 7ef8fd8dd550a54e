package outbox

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// EventType tells consumers whether an order appeared or changed.
type EventType int

const (
	UnknownEventType EventType = iota
	Created
	Updated
)

func getEventTypeStrings() map[EventType]string {
	return map[EventType]string{
		Created: "Created",
		Updated: "Updated",
	}
}

func (t EventType) Validate() error {
	if _, ok := getEventTypeStrings()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("eventType", fmt.Errorf("%d is not a valid event type", t))
	}
	return nil
}

func (t EventType) String() string {
	if s, ok := getEventTypeStrings()[t]; ok {
		return s
	}
	return "Unknown"
}
