package order

import (
	"fmt"
	"unicode/utf8"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

const maxSpecialInstructionsLength = 2000

// Item is one order line. UnitPrice is the menu price captured at placement time.
type Item struct {
	menuItemID          int64
	quantity            int
	unitPrice           kernel.Money
	specialInstructions string
}

// NewItem validates a positive menu item id and quantity.
func NewItem(menuItemID int64, quantity int, unitPrice kernel.Money, specialInstructions string) (Item, error) {
	if menuItemID <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("menuItemId", fmt.Errorf("%d is not positive", menuItemID))
	}
	if quantity <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	if err := validateInstructions(specialInstructions); err != nil {
		return Item{}, err
	}

	return Item{
		menuItemID:          menuItemID,
		quantity:            quantity,
		unitPrice:           unitPrice,
		specialInstructions: specialInstructions,
	}, nil
}

func (i Item) MenuItemID() int64 {
	return i.menuItemID
}

func (i Item) Quantity() int {
	return i.quantity
}

func (i Item) UnitPrice() kernel.Money {
	return i.unitPrice
}

func (i Item) SpecialInstructions() string {
	return i.specialInstructions
}

// LineTotal is UnitPrice * Quantity.
func (i Item) LineTotal() kernel.Money {
	return i.unitPrice.Multiply(i.quantity)
}

func validateInstructions(s string) error {
	if n := utf8.RuneCountInString(s); n > maxSpecialInstructionsLength {
		return errs.NewValueIsOutOfRangeError("specialInstructions length", n, 0, maxSpecialInstructionsLength)
	}
	return nil
}
