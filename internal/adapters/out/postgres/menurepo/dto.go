// Package menurepo reads the menu catalog from the menu_items table.
package menurepo

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/shopspring/decimal"
)

// MenuItemDTO represents a sellable item. Deleted items are kept for the history of old
// orders but can no longer be ordered.
type MenuItemDTO struct {
	ID      int64           `gorm:"primaryKey;autoIncrement"`
	Name    string          `gorm:"size:100;not null"`
	Price   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Deleted bool            `gorm:"not null;default:false"`
}

// TableName specifies the database table name for menu items.
func (MenuItemDTO) TableName() string {
	return "menu_items"
}

func toDomain(dto MenuItemDTO) (ports.MenuItem, error) {
	price, err := kernel.NewMoney(dto.Price)
	if err != nil {
		return ports.MenuItem{}, err
	}

	return ports.MenuItem{
		ID:        dto.ID,
		Name:      dto.Name,
		Price:     price,
		Available: !dto.Deleted,
	}, nil
}
