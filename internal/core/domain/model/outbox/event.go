package outbox

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrEventIDAlreadyAssigned is returned when the store assigns an outbox id twice.
var ErrEventIDAlreadyAssigned = errors.New("outbox event id is already assigned")

// Event is one pending outbox entry. ID is the monotonically increasing store id and
// stays zero until the event is persisted; EventID identifies the event for consumers.
type Event struct {
	id        int64
	eventID   uuid.UUID
	eventType EventType
	orderID   int64
	payload   []byte
	createdAt time.Time
}

// NewOrderCreatedEvent snapshots a freshly persisted order. The order id must already be
// assigned.
func NewOrderCreatedEvent(o *order.Order, at time.Time) (*Event, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if o.ID() <= 0 {
		return nil, errs.NewValueIsRequiredErrorWithCause("orderId", errors.New("order must be persisted before its event is built"))
	}

	eventID := uuid.New()
	state := o.State()
	total := o.TotalAmount().String()

	items := make([]ItemLine, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, ItemLine{
			MenuItemID: item.MenuItemID(),
			Quantity:   item.Quantity(),
			UnitPrice:  item.UnitPrice().String(),

			SpecialInstructions: item.SpecialInstructions(),
		})
	}

	contact := o.ContactDetails()
	var address *Address
	if a := o.DeliveryAddress(); a != nil {
		address = &Address{
			Street:         a.Street(),
			BuildingNumber: a.BuildingNumber(),
			City:           a.City(),
			PostalCode:     a.PostalCode(),
			Country:        a.Country(),
		}
	}

	snapshot := OrderSnapshot{
		EventID:     eventID.String(),
		EventType:   Created.String(),
		OrderID:     o.ID(),
		Status:      state.Status().String(),
		Type:        state.Type().String(),
		TotalAmount: &total,
		Contact: &Contact{
			Name:        contact.Name(),
			PhoneNumber: contact.PhoneNumber(),
		},
		DeliveryAddress:     address,
		SpecialInstructions: o.SpecialInstructions(),
		Items:               items,
		ActorID:             o.CreatedBy(),
		CreatedAt:           state.CreatedAt(),
	}

	return newEvent(eventID, Created, o.ID(), snapshot, at)
}

// NewOrderUpdatedEvent snapshots the state an order is about to be saved with.
func NewOrderUpdatedEvent(orderID int64, state order.State, actorID string, at time.Time) (*Event, error) {
	if orderID <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("orderId", fmt.Errorf("%d is not positive", orderID))
	}
	if actorID == "" {
		return nil, errs.NewValueIsRequiredError("actorId")
	}

	eventID := uuid.New()
	snapshot := OrderSnapshot{
		EventID:                eventID.String(),
		EventType:              Updated.String(),
		OrderID:                orderID,
		Status:                 state.Status().String(),
		Type:                   state.Type().String(),
		DeliveryStaffID:        state.DeliveryStaffID(),
		FulfillmentTimeMinutes: state.FulfillmentTimeMinutes(),
		ActorID:                actorID,
		CreatedAt:              state.CreatedAt(),
		UpdatedAt:              state.UpdatedAt(),
	}

	return newEvent(eventID, Updated, orderID, snapshot, at)
}

func newEvent(eventID uuid.UUID, eventType EventType, orderID int64, snapshot OrderSnapshot, at time.Time) (*Event, error) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal order snapshot: %w", err)
	}

	return &Event{
		eventID:   eventID,
		eventType: eventType,
		orderID:   orderID,
		payload:   payload,
		createdAt: at,
	}, nil
}

// RestoreEvent rebuilds a persisted event. It panics on an unknown event type, which can
// only come from a corrupted row.
func RestoreEvent(id int64, eventID uuid.UUID, eventType EventType, orderID int64, payload []byte, createdAt time.Time) *Event {
	if err := eventType.Validate(); err != nil {
		panic(errs.NewIntegrityViolationError("outbox event %d: %v", id, err))
	}

	p := make([]byte, len(payload))
	copy(p, payload)

	return &Event{
		id:        id,
		eventID:   eventID,
		eventType: eventType,
		orderID:   orderID,
		payload:   p,
		createdAt: createdAt,
	}
}

// AssignID records the id generated by the store.
func (e *Event) AssignID(id int64) error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("eventId", fmt.Errorf("%d is not positive", id))
	}
	if e.id != 0 {
		return ErrEventIDAlreadyAssigned
	}
	e.id = id
	return nil
}

func (e *Event) ID() int64 {
	return e.id
}

func (e *Event) EventID() uuid.UUID {
	return e.eventID
}

func (e *Event) EventType() EventType {
	return e.eventType
}

func (e *Event) OrderID() int64 {
	return e.orderID
}

// Payload returns a copy of the serialized OrderSnapshot.
func (e *Event) Payload() []byte {
	p := make([]byte, len(e.payload))
	copy(p, e.payload)
	return p
}

func (e *Event) CreatedAt() time.Time {
	return e.createdAt
}

// Snapshot decodes the payload.
func (e *Event) Snapshot() (OrderSnapshot, error) {
	var s OrderSnapshot
	if err := json.Unmarshal(e.payload, &s); err != nil {
		return OrderSnapshot{}, fmt.Errorf("unmarshal order snapshot of event %d: %w", e.id, err)
	}
	return s, nil
}
