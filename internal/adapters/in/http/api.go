package http

import (
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/order"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type ContactDetails struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
}

type DeliveryAddress struct {
	Street         string `json:"street"`
	BuildingNumber int    `json:"buildingNumber"`
	City           string `json:"city"`
	PostalCode     string `json:"postalCode"`
	Country        string `json:"country"`
}

type NewOrderItem struct {
	MenuItemID          int64  `json:"menuItemId"`
	Quantity            int    `json:"quantity"`
	SpecialInstructions string `json:"specialInstructions,omitempty"`
}

// NewOrder is the body of POST /api/v1/orders.
type NewOrder struct {
	Type                string           `json:"type"`
	ContactDetails      ContactDetails   `json:"contactDetails"`
	DeliveryAddress     *DeliveryAddress `json:"deliveryAddress,omitempty"`
	SpecialInstructions string           `json:"specialInstructions,omitempty"`
	Items               []NewOrderItem   `json:"items"`
}

// StatusChange is the body of PATCH /api/v1/orders/:id/status.
type StatusChange struct {
	Status string `json:"status"`
}

// DeliveryStaffAssignment is the body of PATCH /api/v1/orders/:id/delivery.
type DeliveryStaffAssignment struct {
	DeliveryStaffID string `json:"deliveryStaffId"`
}

// PlacedOrder is returned by POST /api/v1/orders.
type PlacedOrder struct {
	ID          int64  `json:"id"`
	Status      string `json:"status"`
	TotalAmount string `json:"totalAmount"`
}

// OrderState is returned by the PATCH endpoints.
type OrderState struct {
	ID                     int64      `json:"id"`
	Type                   string     `json:"type"`
	Status                 string     `json:"status"`
	AllowedTransitions     []string   `json:"allowedTransitions"`
	DeliveryStaffID        *string    `json:"deliveryStaffId,omitempty"`
	FulfillmentTimeMinutes *int       `json:"fulfillmentTimeMinutes,omitempty"`
	UpdatedAt              *time.Time `json:"updatedAt,omitempty"`
}

type OrderItem struct {
	MenuItemID          int64  `json:"menuItemId"`
	Quantity            int    `json:"quantity"`
	UnitPrice           string `json:"unitPrice"`
	SpecialInstructions string `json:"specialInstructions,omitempty"`
}

// Order is the full view returned by GET /api/v1/orders/:id.
type Order struct {
	ID                     int64            `json:"id"`
	Type                   string           `json:"type"`
	Status                 string           `json:"status"`
	ContactDetails         ContactDetails   `json:"contactDetails"`
	DeliveryAddress        *DeliveryAddress `json:"deliveryAddress,omitempty"`
	SpecialInstructions    string           `json:"specialInstructions,omitempty"`
	DeliveryStaffID        *string          `json:"deliveryStaffId,omitempty"`
	FulfillmentTimeMinutes *int             `json:"fulfillmentTimeMinutes,omitempty"`
	TotalAmount            string           `json:"totalAmount"`
	Items                  []OrderItem      `json:"items"`
	CreatedAt              time.Time        `json:"createdAt"`
	CreatedBy              string           `json:"createdBy"`
	LastUpdatedAt          *time.Time       `json:"lastUpdatedAt,omitempty"`
	LastUpdatedBy          *string          `json:"lastUpdatedBy,omitempty"`
}

// OrderSummary is one entry of GET /api/v1/orders.
type OrderSummary struct {
	ID                     int64      `json:"id"`
	Type                   string     `json:"type"`
	Status                 string     `json:"status"`
	DeliveryStaffID        *string    `json:"deliveryStaffId,omitempty"`
	FulfillmentTimeMinutes *int       `json:"fulfillmentTimeMinutes,omitempty"`
	CreatedAt              time.Time  `json:"createdAt"`
	CreatedBy              string     `json:"createdBy"`
	LastUpdatedAt          *time.Time `json:"lastUpdatedAt,omitempty"`
}

func toOrderState(orderID int64, state order.State) OrderState {
	allowed := state.AllowedTransitions()
	names := make([]string, 0, len(allowed))
	for _, s := range allowed {
		names = append(names, s.String())
	}

	return OrderState{
		ID:                     orderID,
		Type:                   state.Type().String(),
		Status:                 state.Status().String(),
		AllowedTransitions:     names,
		DeliveryStaffID:        state.DeliveryStaffID(),
		FulfillmentTimeMinutes: state.FulfillmentTimeMinutes(),
		UpdatedAt:              state.UpdatedAt(),
	}
}

func toOrder(view queries.GetOrderQueryResponse) Order {
	resp := Order{
		ID:     view.ID,
		Type:   view.Type.String(),
		Status: view.Status.String(),
		ContactDetails: ContactDetails{
			Name:        view.ContactName,
			PhoneNumber: view.ContactPhoneNumber,
		},
		SpecialInstructions:    view.SpecialInstructions,
		DeliveryStaffID:        view.DeliveryStaffID,
		FulfillmentTimeMinutes: view.FulfillmentTimeMinutes,
		TotalAmount:            view.TotalAmount.String(),
		Items:                  make([]OrderItem, len(view.Items)),
		CreatedAt:              view.CreatedAt,
		CreatedBy:              view.CreatedBy,
		LastUpdatedAt:          view.LastUpdatedAt,
		LastUpdatedBy:          view.LastUpdatedBy,
	}

	if a := view.DeliveryAddress; a != nil {
		resp.DeliveryAddress = &DeliveryAddress{
			Street:         a.Street,
			BuildingNumber: a.BuildingNumber,
			City:           a.City,
			PostalCode:     a.PostalCode,
			Country:        a.Country,
		}
	}

	for i, item := range view.Items {
		resp.Items[i] = OrderItem{
			MenuItemID:          item.MenuItemID,
			Quantity:            item.Quantity,
			UnitPrice:           item.UnitPrice.String(),
			SpecialInstructions: item.SpecialInstructions,
		}
	}

	return resp
}

func toOrderSummary(r queries.FilterOrdersQueryResponse) OrderSummary {
	return OrderSummary{
		ID:                     r.ID,
		Type:                   r.Type.String(),
		Status:                 r.Status.String(),
		DeliveryStaffID:        r.DeliveryStaffID,
		FulfillmentTimeMinutes: r.FulfillmentTimeMinutes,
		CreatedAt:              r.CreatedAt,
		CreatedBy:              r.CreatedBy,
		LastUpdatedAt:          r.LastUpdatedAt,
	}
}
