package order_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireIntegrityPanic(t *testing.T, fn func()) {
	t.Helper()

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value must be an error, got %T", r)
		require.ErrorIs(t, err, errs.ErrIntegrityViolation)
	}()

	fn()
}

func TestRestore_RoundTrip(t *testing.T) {
	updated := baseTime.Add(10 * time.Minute)
	staff := "staff-9"
	minutes := 55

	rec := order.Record{
		ID:                     11,
		Status:                 order.UnableToDeliver,
		Type:                   order.Delivery,
		DeliveryStaffID:        &staff,
		FulfillmentTimeMinutes: &minutes,
		CreatedAt:              baseTime,
		CreatedBy:              "user-1",
		LastUpdatedAt:          &updated,
		Version:                []byte{0xAA},
	}

	state := order.Restore(rec)

	assert.Equal(t, order.UnableToDeliver, state.Status())
	assert.Equal(t, order.Delivery, state.Type())
	assert.Equal(t, baseTime, state.CreatedAt())
	assert.Equal(t, updated, *state.UpdatedAt())
	assert.Equal(t, "staff-9", *state.DeliveryStaffID())
	assert.Equal(t, 55, *state.FulfillmentTimeMinutes())

	staff = "changed"
	assert.Equal(t, "staff-9", *state.DeliveryStaffID(), "restore must copy record pointers")
}

func TestRestore_AllLegalPairs(t *testing.T) {
	for orderType, statuses := range legalPairs {
		for _, status := range statuses {
			state := restoreState(t, orderType, status)
			assert.Equal(t, status, state.Status())
			assert.Equal(t, orderType, state.Type())
		}
	}
}

func TestRestore_PanicsOnCorruptedRecord(t *testing.T) {
	t.Run("unknown status", func(t *testing.T) {
		for _, status := range []order.Status{order.Unknown, order.Status(10), order.Status(-3)} {
			requireIntegrityPanic(t, func() {
				order.Restore(order.Record{ID: 1, Status: status, Type: order.Pickup, CreatedAt: baseTime})
			})
		}
	})

	t.Run("status not legal for the type", func(t *testing.T) {
		illegal := map[order.Type][]order.Status{
			order.Pickup:   {order.ReadyForDelivery, order.OutForDelivery, order.Delivered, order.UnableToDeliver},
			order.Delivery: {order.ReadyForPickup, order.PickedUp},
		}
		for orderType, statuses := range illegal {
			for _, status := range statuses {
				requireIntegrityPanic(t, func() {
					order.Restore(order.Record{ID: 1, Status: status, Type: orderType, CreatedAt: baseTime})
				})
			}
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		requireIntegrityPanic(t, func() {
			order.Restore(order.Record{ID: 1, Status: order.Pending, Type: order.UnknownType, CreatedAt: baseTime})
		})
	})

	t.Run("delivery staff on a pickup order", func(t *testing.T) {
		staff := "staff-1"
		requireIntegrityPanic(t, func() {
			order.Restore(order.Record{
				ID: 1, Status: order.Preparing, Type: order.Pickup, DeliveryStaffID: &staff, CreatedAt: baseTime,
			})
		})
	})

	t.Run("fulfillment time on a non-terminal status", func(t *testing.T) {
		minutes := 3
		requireIntegrityPanic(t, func() {
			order.Restore(order.Record{
				ID: 1, Status: order.Preparing, Type: order.Delivery, FulfillmentTimeMinutes: &minutes, CreatedAt: baseTime,
			})
		})
	})
}
