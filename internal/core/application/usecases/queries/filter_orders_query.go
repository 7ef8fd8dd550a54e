package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrFilterOrdersQueryIsNotConstructed = errors.New(
		"FilterOrdersQuery must be created via NewFilterOrdersQuery constructor",
	)
)

// FilterOrdersQuery lists basic order records, optionally narrowed by status and type.
// A nil filter matches every value.
type FilterOrdersQuery struct {
	status    *order.Status
	orderType *order.Type
	guard     guard.ConstructorGuard
}

// NewFilterOrdersQuery validates the filters that are set.
func NewFilterOrdersQuery(status *order.Status, orderType *order.Type) (FilterOrdersQuery, error) {
	if status != nil {
		if err := status.Validate(); err != nil {
			return FilterOrdersQuery{}, err
		}
	}
	if orderType != nil {
		if err := orderType.Validate(); err != nil {
			return FilterOrdersQuery{}, err
		}
	}

	return FilterOrdersQuery{status: status, orderType: orderType, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q FilterOrdersQuery) Validate() error {
	return q.guard.Validate(ErrFilterOrdersQueryIsNotConstructed)
}

func (q FilterOrdersQuery) Status() *order.Status {
	return q.status
}

func (q FilterOrdersQuery) OrderType() *order.Type {
	return q.orderType
}

// FilterOrdersQueryResponse is the basic projection of one order.
type FilterOrdersQueryResponse struct {
	ID                     int64
	Type                   order.Type
	Status                 order.Status
	DeliveryStaffID        *string
	FulfillmentTimeMinutes *int
	CreatedAt              time.Time
	CreatedBy              string
	LastUpdatedAt          *time.Time
	LastUpdatedBy          *string
}
