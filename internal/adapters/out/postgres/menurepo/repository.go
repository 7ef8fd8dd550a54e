package menurepo

import (
	"context"
	"fmt"

	"fulfillment/internal/core/ports"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GormMenuCatalog implements ports.MenuCatalog on top of the menu_items table.
type GormMenuCatalog struct {
	db *gorm.DB
}

// NewGormMenuCatalog creates a menu catalog reading through db.
func NewGormMenuCatalog(db *gorm.DB) *GormMenuCatalog {
	return &GormMenuCatalog{db: db}
}

// GetItemsByIDs loads every requested item in one query. Soft deleted items are
// returned with Available set to false.
func (c *GormMenuCatalog) GetItemsByIDs(ctx context.Context, ids []int64) ([]ports.MenuItem, error) {
	if len(ids) == 0 {
		return []ports.MenuItem{}, nil
	}

	var dtos []MenuItemDTO
	err := c.db.WithContext(ctx).
		Where("id = ANY(?)", pq.Array(ids)).
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, fmt.Errorf("load menu items: %w", err)
	}

	items := make([]ports.MenuItem, 0, len(dtos))
	for _, dto := range dtos {
		item, convErr := toDomain(dto)
		if convErr != nil {
			return nil, fmt.Errorf("menu item %d: %w", dto.ID, convErr)
		}
		items = append(items, item)
	}

	return items, nil
}
