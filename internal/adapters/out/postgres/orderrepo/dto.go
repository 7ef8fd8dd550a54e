// Package orderrepo persists orders with GORM. The basic columns of the orders table form
// the order.Record projection; version is the opaque concurrency token that every
// conditional write compares and replaces.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure of an order.
type OrderDTO struct {
	ID                     int64              `gorm:"primaryKey;autoIncrement"`
	Type                   int                `gorm:"not null;index"`
	Status                 int                `gorm:"not null;index"`
	TotalAmount            decimal.Decimal    `gorm:"type:numeric(12,2);not null"`
	Contact                ContactDTO         `gorm:"embedded;embeddedPrefix:contact_"`
	DeliveryAddress        DeliveryAddressDTO `gorm:"embedded;embeddedPrefix:delivery_"`
	SpecialInstructions    string             `gorm:"size:2000"`
	DeliveryStaffID        *string            `gorm:"size:64"`
	FulfillmentTimeMinutes *int
	CreatedAt              time.Time `gorm:"not null"`
	CreatedBy              string    `gorm:"size:64;not null"`
	LastUpdatedAt          *time.Time
	LastUpdatedBy          *string        `gorm:"size:64"`
	Version                []byte         `gorm:"type:bytea;not null"`
	Items                  []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// ContactDTO is embedded into the orders table.
type ContactDTO struct {
	Name        string `gorm:"size:100;not null"`
	PhoneNumber string `gorm:"size:10;not null"`
}

// DeliveryAddressDTO is embedded into the orders table; all columns are NULL for pickup
// orders.
type DeliveryAddressDTO struct {
	Street         *string `gorm:"size:100"`
	BuildingNumber *int
	City           *string `gorm:"size:50"`
	PostalCode     *string `gorm:"size:10"`
	Country        *string `gorm:"size:50"`
}

// OrderItemDTO is one order line with the unit price captured at placement.
type OrderItemDTO struct {
	ID                  int64           `gorm:"primaryKey;autoIncrement"`
	OrderID             int64           `gorm:"not null;index"`
	MenuItemID          int64           `gorm:"not null"`
	Quantity            int             `gorm:"not null"`
	UnitPrice           decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	SpecialInstructions string          `gorm:"size:2000"`
}

// TableName specifies the database table name for order lines.
func (OrderItemDTO) TableName() string {
	return "order_items"
}

// newVersion generates a fresh concurrency token.
func newVersion() []byte {
	v := uuid.New()
	return v[:]
}

// fromDomain converts a freshly placed order to its database representation.
func fromDomain(o *order.Order) OrderDTO {
	dto := OrderDTO{
		Type:        int(o.Type()),
		Status:      int(o.Status()),
		TotalAmount: o.TotalAmount().Amount(),
		Contact: ContactDTO{
			Name:        o.ContactDetails().Name(),
			PhoneNumber: o.ContactDetails().PhoneNumber(),
		},
		SpecialInstructions: o.SpecialInstructions(),
		CreatedAt:           o.CreatedAt(),
		CreatedBy:           o.CreatedBy(),
		Version:             newVersion(),
	}

	if a := o.DeliveryAddress(); a != nil {
		street, building, city, postal, country := a.Street(), a.BuildingNumber(), a.City(), a.PostalCode(), a.Country()
		dto.DeliveryAddress = DeliveryAddressDTO{
			Street:         &street,
			BuildingNumber: &building,
			City:           &city,
			PostalCode:     &postal,
			Country:        &country,
		}
	}

	for _, item := range o.Items() {
		dto.Items = append(dto.Items, OrderItemDTO{
			MenuItemID:          item.MenuItemID(),
			Quantity:            item.Quantity(),
			UnitPrice:           item.UnitPrice().Amount(),
			SpecialInstructions: item.SpecialInstructions(),
		})
	}

	return dto
}

// toRecord maps the basic columns to the order.Record projection.
func toRecord(dto OrderDTO) order.Record {
	return order.Record{
		ID:                     dto.ID,
		Status:                 order.Status(dto.Status),
		Type:                   order.Type(dto.Type),
		DeliveryStaffID:        dto.DeliveryStaffID,
		FulfillmentTimeMinutes: dto.FulfillmentTimeMinutes,
		CreatedAt:              dto.CreatedAt,
		CreatedBy:              dto.CreatedBy,
		LastUpdatedAt:          dto.LastUpdatedAt,
		LastUpdatedBy:          dto.LastUpdatedBy,
		Version:                dto.Version,
	}
}
