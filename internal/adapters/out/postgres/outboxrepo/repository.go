package outboxrepo

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/outbox"

	"gorm.io/gorm"
)

// GormOutboxRepository implements ports.OutboxRepository using GORM.
type GormOutboxRepository struct {
	db *gorm.DB
}

// NewGormOutboxRepository creates a new GORM outbox repository.
func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

// Add inserts the event and assigns the generated id to it.
func (r *GormOutboxRepository) Add(ctx context.Context, event *outbox.Event) error {
	dto := fromDomain(event)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return fmt.Errorf("insert outbox event for order %d: %w", event.OrderID(), err)
	}

	return event.AssignID(dto.ID)
}

// ListPending returns every stored event, oldest first. Events created in the same
// instant are ordered by id.
func (r *GormOutboxRepository) ListPending(ctx context.Context) ([]*outbox.Event, error) {
	var dtos []OutboxEventDTO
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&dtos).Error; err != nil {
		return nil, fmt.Errorf("list outbox events: %w", err)
	}

	events := make([]*outbox.Event, 0, len(dtos))
	for _, dto := range dtos {
		events = append(events, toDomain(dto))
	}

	return events, nil
}

// Delete removes the event. A missing row is not an error.
func (r *GormOutboxRepository) Delete(ctx context.Context, event *outbox.Event) error {
	err := r.db.WithContext(ctx).
		Where("id = ?", event.ID()).
		Delete(&OutboxEventDTO{}).Error
	if err != nil {
		return fmt.Errorf("delete outbox event %d: %w", event.ID(), err)
	}

	return nil
}
