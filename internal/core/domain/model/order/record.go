package order

import "time"

// Record is the persisted basic projection of an order. It is passed by value between
// the store and the core; Version is the opaque concurrency token, compared by equality
// only and replaced by the store on every successful write.
type Record struct {
	ID                     int64
	Status                 Status
	Type                   Type
	DeliveryStaffID        *string
	FulfillmentTimeMinutes *int
	CreatedAt              time.Time
	CreatedBy              string
	LastUpdatedAt          *time.Time
	LastUpdatedBy          *string
	Version                []byte
}
