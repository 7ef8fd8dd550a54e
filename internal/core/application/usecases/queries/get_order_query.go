package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
)

// GetOrderQuery loads one order with its lines, contact details and delivery address.
//
// Example:
//
//	query, err := NewGetOrderQuery(42)
//	if err != nil {
//	    return err
//	}
//
//	view, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // no such order
//	}
type GetOrderQuery struct {
	orderID int64
	guard   guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for the order with the given id.
func NewGetOrderQuery(orderID int64) (GetOrderQuery, error) {
	if orderID <= 0 {
		return GetOrderQuery{}, errs.NewValueIsInvalidError("orderID")
	}
	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() int64 {
	return q.orderID
}

// GetOrderQueryResponse is the full read view of an order.
type GetOrderQueryResponse struct {
	ID                     int64
	Type                   order.Type
	Status                 order.Status
	ContactName            string
	ContactPhoneNumber     string
	DeliveryAddress        *DeliveryAddressResponse
	SpecialInstructions    string
	DeliveryStaffID        *string
	FulfillmentTimeMinutes *int
	TotalAmount            kernel.Money
	Items                  []OrderItemResponse
	CreatedAt              time.Time
	CreatedBy              string
	LastUpdatedAt          *time.Time
	LastUpdatedBy          *string
}

// DeliveryAddressResponse is present only for delivery orders.
type DeliveryAddressResponse struct {
	Street         string
	BuildingNumber int
	City           string
	PostalCode     string
	Country        string
}

// OrderItemResponse is one order line with the price captured at placement.
type OrderItemResponse struct {
	MenuItemID          int64
	Quantity            int
	UnitPrice           kernel.Money
	SpecialInstructions string
}
