// Package geo decides whether a delivery address is inside the service area.
package geo

import (
	"context"
	"strings"

	"fulfillment/internal/core/domain/model/order"
)

// ServiceAreaValidator implements ports.AddressValidator with a list of served cities.
// City names are compared case-insensitively. An empty list serves every address.
type ServiceAreaValidator struct {
	cities map[string]struct{}
}

func NewServiceAreaValidator(cities []string) *ServiceAreaValidator {
	v := &ServiceAreaValidator{cities: make(map[string]struct{}, len(cities))}
	for _, city := range cities {
		if key := normalize(city); key != "" {
			v.cities[key] = struct{}{}
		}
	}
	return v
}

func (v *ServiceAreaValidator) IsServiceable(ctx context.Context, address order.DeliveryAddress) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if len(v.cities) == 0 {
		return true, nil
	}

	_, ok := v.cities[normalize(address.City())]
	return ok, nil
}

func normalize(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}
