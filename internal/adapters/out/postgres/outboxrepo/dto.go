// Package outboxrepo stores pending order events in the order_outbox_events table.
package outboxrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/outbox"

	"github.com/google/uuid"
)

// OutboxEventDTO represents the database structure of a pending event. ID is a bigserial,
// so ids grow in insertion order.
type OutboxEventDTO struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	EventID   uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	EventType int       `gorm:"not null"`
	OrderID   int64     `gorm:"not null;index"`
	Payload   []byte    `gorm:"type:jsonb;not null"`
	CreatedAt time.Time `gorm:"not null;index"`
}

// TableName specifies the database table name for outbox events.
func (OutboxEventDTO) TableName() string {
	return "order_outbox_events"
}

func fromDomain(e *outbox.Event) OutboxEventDTO {
	return OutboxEventDTO{
		ID:        e.ID(),
		EventID:   e.EventID(),
		EventType: int(e.EventType()),
		OrderID:   e.OrderID(),
		Payload:   e.Payload(),
		CreatedAt: e.CreatedAt(),
	}
}

func toDomain(dto OutboxEventDTO) *outbox.Event {
	return outbox.RestoreEvent(
		dto.ID,
		dto.EventID,
		outbox.EventType(dto.EventType),
		dto.OrderID,
		dto.Payload,
		dto.CreatedAt,
	)
}
