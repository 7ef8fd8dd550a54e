package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Money is a non-negative monetary amount. Arithmetic is exact (decimal based).
//
// Example:
//
//	price, _ := kernel.NewMoney(decimal.RequireFromString("5.00"))
//	total := price.Multiply(2) // 10.00
type Money struct {
	amount decimal.Decimal
}

// ZeroMoney returns an amount of zero.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

// NewMoney validates that amount is not negative.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"money",
			fmt.Errorf("%s is negative", amount.String()),
		)
	}
	return Money{amount: amount}, nil
}

// MustNewMoneyFromString parses s and panics on malformed or negative input.
// Intended for constants and tests.
func MustNewMoneyFromString(s string) Money {
	m, err := NewMoney(decimal.RequireFromString(s))
	if err != nil {
		panic(err)
	}
	return m
}

// Amount returns the underlying decimal value.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Multiply returns m * quantity.
func (m Money) Multiply(quantity int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(quantity)))}
}

// Equal compares amounts numerically, so 13 equals 13.00.
func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

// String formats the amount with two decimal places.
func (m Money) String() string {
	return m.amount.StringFixed(2)
}
