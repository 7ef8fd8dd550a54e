package geo_test

import (
	"context"
	"testing"

	"fulfillment/internal/adapters/out/geo"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func address(t *testing.T, city string) order.DeliveryAddress {
	t.Helper()
	a, err := order.NewDeliveryAddress("Main Street", 1, city, "12345", "USA")
	require.NoError(t, err)
	return a
}

func TestServiceAreaValidator_IsServiceable(t *testing.T) {
	tests := []struct {
		name   string
		cities []string
		city   string
		want   bool
	}{
		{name: "empty_list_serves_everywhere", cities: nil, city: "Anywhere", want: true},
		{name: "blank_entries_are_ignored", cities: []string{" ", ""}, city: "Anywhere", want: true},
		{name: "listed_city", cities: []string{"Springfield", "Shelbyville"}, city: "Springfield", want: true},
		{name: "case_and_space_insensitive", cities: []string{" springfield "}, city: "SPRINGFIELD", want: true},
		{name: "unlisted_city", cities: []string{"Springfield"}, city: "Capital City", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := geo.NewServiceAreaValidator(tt.cities).IsServiceable(t.Context(), address(t, tt.city))

			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestServiceAreaValidator_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := geo.NewServiceAreaValidator(nil).IsServiceable(ctx, address(t, "Springfield"))

	require.ErrorIs(t, err, context.Canceled)
}
