package outbox

import "time"

// OrderSnapshot is the JSON payload of an order event. It describes the order as it
// was committed together with the event.
type OrderSnapshot struct {
	EventID                string     `json:"event_id"`
	EventType              string     `json:"event_type"`
	OrderID                int64      `json:"order_id"`
	Status                 string     `json:"status"`
	Type                   string     `json:"type"`
	DeliveryStaffID        *string    `json:"delivery_staff_id"`
	FulfillmentTimeMinutes *int       `json:"fulfillment_time_minutes"`
	TotalAmount            *string    `json:"total_amount,omitempty"`
	Contact                *Contact   `json:"contact,omitempty"`
	DeliveryAddress        *Address   `json:"delivery_address,omitempty"`
	SpecialInstructions    string     `json:"special_instructions,omitempty"`
	Items                  []ItemLine `json:"items,omitempty"`
	ActorID                string     `json:"actor_id"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              *time.Time `json:"updated_at"`
}

// ItemLine is one order line inside a Created snapshot.
type ItemLine struct {
	MenuItemID int64  `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
	UnitPrice  string `json:"unit_price"`

	SpecialInstructions string `json:"special_instructions,omitempty"`
}

// Contact is the customer contact inside a Created snapshot.
type Contact struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
}

// Address is the delivery address inside a Created snapshot. Pickup orders have none.
type Address struct {
	Street         string `json:"street"`
	BuildingNumber int    `json:"building_number"`
	City           string `json:"city"`
	PostalCode     string `json:"postal_code"`
	Country        string `json:"country"`
}
