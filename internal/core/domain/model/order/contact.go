package order

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"fulfillment/internal/pkg/errs"
)

const (
	maxContactNameLength = 100
	phoneNumberLength    = 10
)

// ContactDetails identifies who placed the order.
type ContactDetails struct {
	name        string
	phoneNumber string
}

// NewContactDetails validates a name of 1..100 characters and a phone number of exactly 10 digits.
func NewContactDetails(name, phoneNumber string) (ContactDetails, error) {
	if name == "" {
		return ContactDetails{}, errs.NewValueIsRequiredError("contactDetails.name")
	}
	if n := utf8.RuneCountInString(name); n > maxContactNameLength {
		return ContactDetails{}, errs.NewValueIsOutOfRangeError("contactDetails.name length", n, 1, maxContactNameLength)
	}
	if len(phoneNumber) != phoneNumberLength {
		return ContactDetails{}, errs.NewValueIsInvalidErrorWithCause(
			"contactDetails.phoneNumber",
			fmt.Errorf("must be exactly %d digits", phoneNumberLength),
		)
	}
	for _, r := range phoneNumber {
		if !unicode.IsDigit(r) {
			return ContactDetails{}, errs.NewValueIsInvalidErrorWithCause(
				"contactDetails.phoneNumber",
				fmt.Errorf("%q is not a digit", r),
			)
		}
	}

	return ContactDetails{name: name, phoneNumber: phoneNumber}, nil
}

func (c ContactDetails) Name() string {
	return c.name
}

func (c ContactDetails) PhoneNumber() string {
	return c.phoneNumber
}
