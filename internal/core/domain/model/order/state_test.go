package order_test

import (
	"slices"
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// legalPairs lists every status each order type can legally be in.
var legalPairs = map[order.Type][]order.Status{
	order.Pickup: {
		order.Pending, order.Preparing, order.ReadyForPickup, order.PickedUp, order.Cancelled,
	},
	order.Delivery: {
		order.Pending, order.Preparing, order.ReadyForDelivery, order.OutForDelivery,
		order.Delivered, order.Cancelled, order.UnableToDeliver,
	},
}

// edges is the expected transition graph per order type.
var edges = map[order.Type]map[order.Status][]order.Status{
	order.Pickup: {
		order.Pending:        {order.Preparing, order.Cancelled},
		order.Preparing:      {order.ReadyForPickup, order.Cancelled},
		order.ReadyForPickup: {order.PickedUp},
	},
	order.Delivery: {
		order.Pending:          {order.Preparing, order.Cancelled},
		order.Preparing:        {order.ReadyForDelivery, order.Cancelled},
		order.ReadyForDelivery: {order.OutForDelivery},
		order.OutForDelivery:   {order.Delivered, order.UnableToDeliver},
	},
}

func restoreState(t *testing.T, orderType order.Type, status order.Status) order.State {
	t.Helper()

	var fulfillment *int
	if status.IsTerminal() {
		minutes := 30
		fulfillment = &minutes
	}

	return order.Restore(order.Record{
		ID:                     1,
		Status:                 status,
		Type:                   orderType,
		FulfillmentTimeMinutes: fulfillment,
		CreatedAt:              baseTime,
		CreatedBy:              "user-1",
		Version:                []byte{1},
	})
}

func TestState_Transition_FollowsGraph(t *testing.T) {
	for orderType, statuses := range legalPairs {
		for _, from := range statuses {
			allowed := edges[orderType][from]

			t.Run(orderType.String()+"/"+from.String(), func(t *testing.T) {
				state := restoreState(t, orderType, from)
				assert.ElementsMatch(t, allowed, state.AllowedTransitions())

				for _, target := range append(order.AllStatuses(), order.Unknown) {
					next, err := state.Transition(target, baseTime.Add(time.Hour))

					if slices.Contains(allowed, target) {
						require.NoError(t, err, "%s -> %s", from, target)
						assert.Equal(t, target, next.Status())
						assert.Equal(t, orderType, next.Type())
						continue
					}

					require.Error(t, err, "%s -> %s", from, target)
					assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
					assert.Equal(t, state, next, "failed transition must return the original state")
				}
			})
		}
	}
}

func TestState_Transition_SelfTransitionRejected(t *testing.T) {
	for orderType, statuses := range legalPairs {
		for _, status := range statuses {
			state := restoreState(t, orderType, status)

			next, err := state.Transition(status, baseTime.Add(time.Minute))

			require.Error(t, err)
			assert.Contains(t, err.Error(), "status is already set to "+status.String())
			assert.Equal(t, state, next)
		}
	}
}

func TestState_Transition_TerminalIsAbsorbing(t *testing.T) {
	for orderType, statuses := range legalPairs {
		for _, status := range statuses {
			if !status.IsTerminal() {
				continue
			}
			state := restoreState(t, orderType, status)
			assert.Empty(t, state.AllowedTransitions())

			for _, target := range order.AllStatuses() {
				_, err := state.Transition(target, baseTime)
				require.Error(t, err)
			}
		}
	}
}

func TestState_Transition_ErrorMessage(t *testing.T) {
	state := restoreState(t, order.Pickup, order.Pending)

	_, err := state.Transition(order.PickedUp, baseTime)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid state transition from Pending to PickedUp for type Pickup")
}

func TestState_Transition_FulfillmentTime(t *testing.T) {
	t.Run("should set whole minutes on entering a terminal status", func(t *testing.T) {
		state := restoreState(t, order.Pickup, order.ReadyForPickup)

		next, err := state.Transition(order.PickedUp, baseTime.Add(42*time.Minute+59*time.Second))

		require.NoError(t, err)
		require.NotNil(t, next.FulfillmentTimeMinutes())
		assert.Equal(t, 42, *next.FulfillmentTimeMinutes())
	})

	t.Run("should be zero when cancelled within the first minute", func(t *testing.T) {
		state := restoreState(t, order.Delivery, order.Pending)

		next, err := state.Transition(order.Cancelled, baseTime.Add(59*time.Second))

		require.NoError(t, err)
		require.NotNil(t, next.FulfillmentTimeMinutes())
		assert.Equal(t, 0, *next.FulfillmentTimeMinutes())
	})

	t.Run("should stay unset for non-terminal statuses", func(t *testing.T) {
		state := restoreState(t, order.Delivery, order.Pending)

		next, err := state.Transition(order.Preparing, baseTime.Add(10*time.Minute))

		require.NoError(t, err)
		assert.Nil(t, next.FulfillmentTimeMinutes())
	})

	t.Run("should not be recomputed after restore", func(t *testing.T) {
		minutes := 17
		state := order.Restore(order.Record{
			ID:                     3,
			Status:                 order.Delivered,
			Type:                   order.Delivery,
			FulfillmentTimeMinutes: &minutes,
			CreatedAt:              baseTime,
		})

		require.NotNil(t, state.FulfillmentTimeMinutes())
		assert.Equal(t, 17, *state.FulfillmentTimeMinutes())
	})
}

func TestState_Transition_Timestamps(t *testing.T) {
	state := restoreState(t, order.Delivery, order.Pending)
	at := baseTime.Add(5 * time.Minute)

	next, err := state.Transition(order.Preparing, at)

	require.NoError(t, err)
	require.NotNil(t, next.UpdatedAt())
	assert.Equal(t, at, *next.UpdatedAt())
	assert.Equal(t, baseTime, next.CreatedAt())
	assert.Nil(t, state.UpdatedAt(), "receiver must not change")
	assert.Equal(t, order.Pending, state.Status())
}

func TestState_SetDeliveryStaffID(t *testing.T) {
	at := baseTime.Add(20 * time.Minute)

	t.Run("should assign staff in ReadyForDelivery", func(t *testing.T) {
		state := restoreState(t, order.Delivery, order.ReadyForDelivery)

		next, err := state.SetDeliveryStaffID("staff-1", at)

		require.NoError(t, err)
		require.NotNil(t, next.DeliveryStaffID())
		assert.Equal(t, "staff-1", *next.DeliveryStaffID())
		assert.Equal(t, order.ReadyForDelivery, next.Status())
		assert.Equal(t, at, *next.UpdatedAt())
		assert.Nil(t, state.DeliveryStaffID())
	})

	t.Run("should allow reassignment to different staff", func(t *testing.T) {
		state := restoreState(t, order.Delivery, order.ReadyForDelivery)
		first, err := state.SetDeliveryStaffID("staff-1", at)
		require.NoError(t, err)

		second, err := first.SetDeliveryStaffID("staff-2", at.Add(time.Minute))

		require.NoError(t, err)
		assert.Equal(t, "staff-2", *second.DeliveryStaffID())
	})

	t.Run("should reject the staff already assigned", func(t *testing.T) {
		state := restoreState(t, order.Delivery, order.ReadyForDelivery)
		first, err := state.SetDeliveryStaffID("staff-1", at)
		require.NoError(t, err)

		same, err := first.SetDeliveryStaffID("staff-1", at.Add(time.Minute))

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "already assigned")
		assert.Equal(t, first, same)
	})

	t.Run("should require a staff id", func(t *testing.T) {
		state := restoreState(t, order.Delivery, order.ReadyForDelivery)

		_, err := state.SetDeliveryStaffID("", at)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject pickup orders in every status", func(t *testing.T) {
		for _, status := range legalPairs[order.Pickup] {
			state := restoreState(t, order.Pickup, status)

			next, err := state.SetDeliveryStaffID("staff-1", at)

			require.ErrorIs(t, err, errs.ErrValueIsInvalid, status.String())
			assert.Equal(t, state, next)
		}
	})

	t.Run("should reject delivery orders outside ReadyForDelivery", func(t *testing.T) {
		for _, status := range legalPairs[order.Delivery] {
			if status == order.ReadyForDelivery {
				continue
			}
			state := restoreState(t, order.Delivery, status)

			next, err := state.SetDeliveryStaffID("staff-1", at)

			require.ErrorIs(t, err, errs.ErrValueIsInvalid, status.String())
			assert.Contains(t, err.Error(), "can only be assigned to orders with status ReadyForDelivery")
			assert.Equal(t, state, next)
		}
	})
}

func TestState_DeliveryScenario(t *testing.T) {
	state := restoreState(t, order.Delivery, order.Pending)
	var err error

	state, err = state.Transition(order.Preparing, baseTime.Add(5*time.Minute))
	require.NoError(t, err)
	state, err = state.Transition(order.ReadyForDelivery, baseTime.Add(20*time.Minute))
	require.NoError(t, err)
	state, err = state.SetDeliveryStaffID("staff-1", baseTime.Add(21*time.Minute))
	require.NoError(t, err)
	state, err = state.Transition(order.OutForDelivery, baseTime.Add(25*time.Minute))
	require.NoError(t, err)
	state, err = state.Transition(order.Delivered, baseTime.Add(47*time.Minute+30*time.Second))
	require.NoError(t, err)

	assert.Equal(t, order.Delivered, state.Status())
	assert.Equal(t, "staff-1", *state.DeliveryStaffID())
	assert.Equal(t, 47, *state.FulfillmentTimeMinutes())

	_, err = state.Transition(order.Cancelled, baseTime.Add(time.Hour))
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestState_AccessorsReturnCopies(t *testing.T) {
	state := restoreState(t, order.Delivery, order.ReadyForDelivery)
	state, err := state.SetDeliveryStaffID("staff-1", baseTime)
	require.NoError(t, err)

	id := state.DeliveryStaffID()
	*id = "tampered"
	allowed := state.AllowedTransitions()
	allowed[0] = order.Cancelled

	assert.Equal(t, "staff-1", *state.DeliveryStaffID())
	assert.Equal(t, []order.Status{order.OutForDelivery}, state.AllowedTransitions())
}
