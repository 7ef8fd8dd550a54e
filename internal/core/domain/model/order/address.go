package order

import (
	"errors"
	"unicode/utf8"

	"fulfillment/internal/pkg/errs"
)

// DeliveryAddress is where a delivery order is taken.
type DeliveryAddress struct {
	street         string
	buildingNumber int
	city           string
	postalCode     string
	country        string
}

// NewDeliveryAddress validates every component of the address and reports all
// violations at once.
func NewDeliveryAddress(street string, buildingNumber int, city, postalCode, country string) (DeliveryAddress, error) {
	a := DeliveryAddress{}

	if err := errors.Join(
		a.setStreet(street),
		a.setBuildingNumber(buildingNumber),
		a.setCity(city),
		a.setPostalCode(postalCode),
		a.setCountry(country),
	); err != nil {
		return DeliveryAddress{}, err
	}

	return a, nil
}

func (a DeliveryAddress) Street() string {
	return a.street
}

func (a DeliveryAddress) BuildingNumber() int {
	return a.buildingNumber
}

func (a DeliveryAddress) City() string {
	return a.city
}

func (a DeliveryAddress) PostalCode() string {
	return a.postalCode
}

func (a DeliveryAddress) Country() string {
	return a.country
}

func (a *DeliveryAddress) setStreet(street string) error {
	if err := boundedText("deliveryAddress.street", street, 100); err != nil {
		return err
	}
	a.street = street
	return nil
}

func (a *DeliveryAddress) setBuildingNumber(n int) error {
	if n < 1 {
		return errs.NewValueIsOutOfRangeError("deliveryAddress.buildingNumber", n, 1, "unbounded")
	}
	a.buildingNumber = n
	return nil
}

func (a *DeliveryAddress) setCity(city string) error {
	if err := boundedText("deliveryAddress.city", city, 50); err != nil {
		return err
	}
	a.city = city
	return nil
}

func (a *DeliveryAddress) setPostalCode(code string) error {
	if err := boundedText("deliveryAddress.postalCode", code, 10); err != nil {
		return err
	}
	a.postalCode = code
	return nil
}

func (a *DeliveryAddress) setCountry(country string) error {
	if err := boundedText("deliveryAddress.country", country, 50); err != nil {
		return err
	}
	a.country = country
	return nil
}

func boundedText(param, value string, maxLen int) error {
	if value == "" {
		return errs.NewValueIsRequiredError(param)
	}
	if n := utf8.RuneCountInString(value); n > maxLen {
		return errs.NewValueIsOutOfRangeError(param+" length", n, 1, maxLen)
	}
	return nil
}
