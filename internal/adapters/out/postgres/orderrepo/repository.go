package orderrepo

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// basicColumns are the columns of the order.Record projection.
var basicColumns = []string{
	"id", "type", "status", "delivery_staff_id", "fulfillment_time_minutes",
	"created_at", "created_by", "last_updated_at", "last_updated_by", "version",
}

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts the order with its items and assigns the generated id to it.
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order) (order.Record, error) {
	if err := o.Validate(); err != nil {
		return order.Record{}, err
	}

	dto := fromDomain(o)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return order.Record{}, errs.NewValueIsInvalidErrorWithCause("order", err)
		}
		return order.Record{}, fmt.Errorf("insert order: %w", err)
	}

	if err := o.AssignID(dto.ID); err != nil {
		return order.Record{}, err
	}

	return toRecord(dto), nil
}

// GetBasic loads the basic record of an order.
func (r *GormOrderRepository) GetBasic(ctx context.Context, id int64) (order.Record, error) {
	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Select(basicColumns).
		Where("id = ?", id).
		Take(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return order.Record{}, errs.NewObjectNotFoundError("order", id)
		}
		return order.Record{}, fmt.Errorf("load order %d: %w", id, err)
	}

	return toRecord(dto), nil
}

// UpdateStatus writes the lifecycle fields of state if the token still matches.
func (r *GormOrderRepository) UpdateStatus(
	ctx context.Context,
	id int64,
	state order.State,
	updatedBy string,
	expectedVersion []byte,
) (int64, error) {
	return r.conditionalUpdate(ctx, id, expectedVersion, map[string]any{
		"status":                   int(state.Status()),
		"fulfillment_time_minutes": state.FulfillmentTimeMinutes(),
		"last_updated_at":          state.UpdatedAt(),
		"last_updated_by":          updatedBy,
	})
}

// SetDeliveryStaff writes the delivery staff of state if the token still matches.
func (r *GormOrderRepository) SetDeliveryStaff(
	ctx context.Context,
	id int64,
	state order.State,
	updatedBy string,
	expectedVersion []byte,
) (int64, error) {
	return r.conditionalUpdate(ctx, id, expectedVersion, map[string]any{
		"delivery_staff_id": state.DeliveryStaffID(),
		"last_updated_at":   state.UpdatedAt(),
		"last_updated_by":   updatedBy,
	})
}

// conditionalUpdate applies columns to the row matching id and expectedVersion and
// replaces the token. The affected row count is returned as reported by the database.
func (r *GormOrderRepository) conditionalUpdate(
	ctx context.Context,
	id int64,
	expectedVersion []byte,
	columns map[string]any,
) (int64, error) {
	columns["version"] = newVersion()

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(columns)
	if result.Error != nil {
		return 0, fmt.Errorf("update order %d: %w", id, result.Error)
	}

	return result.RowsAffected, nil
}
