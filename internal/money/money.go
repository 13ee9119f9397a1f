// Package money provides exact decimal amounts for account balances.
//
// All arithmetic is decimal (no binary floating point). Subtraction refuses
// negative results instead of clamping, so callers can enforce non-negative
// balance invariants at the arithmetic layer.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ReportPrecision is the number of fractional digits in rendered amounts.
const ReportPrecision = 4

// ErrUnderflow is returned when a subtraction would produce a negative amount.
var ErrUnderflow = errors.New("amount underflow")

// Amount is an exact decimal monetary value.
type Amount struct {
	d decimal.Decimal
}

// Zero is the zero amount.
var Zero = Amount{}

// FromDecimal wraps a raw decimal.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount{d: d}
}

// Parse parses a decimal string such as "100.25".
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}

	return Amount{d: d}, nil
}

// MustParse parses s or panics. Test helper.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}

	return a
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{d: a.d.Add(b.d)}
}

// Sub returns a - b, or ErrUnderflow if the result would be negative.
func (a Amount) Sub(b Amount) (Amount, error) {
	r := a.d.Sub(b.d)
	if r.IsNegative() {
		return Zero, fmt.Errorf("%s - %s: %w", a, b, ErrUnderflow)
	}

	return Amount{d: r}, nil
}

// Cmp returns -1, 0 or 1 comparing a to b.
func (a Amount) Cmp(b Amount) int {
	return a.d.Cmp(b.d)
}

// Equal reports whether a and b represent the same value.
func (a Amount) Equal(b Amount) bool {
	return a.d.Equal(b.d)
}

// IsPositive reports whether a > 0.
func (a Amount) IsPositive() bool {
	return a.d.IsPositive()
}

// IsNegative reports whether a < 0.
func (a Amount) IsNegative() bool {
	return a.d.IsNegative()
}

// IsZero reports whether a == 0.
func (a Amount) IsZero() bool {
	return a.d.IsZero()
}

// String renders the amount without padding, e.g. "100.25".
func (a Amount) String() string {
	return a.d.String()
}

// Fixed renders the amount with exactly ReportPrecision fractional digits,
// rounding half to even, e.g. "100.2500".
func (a Amount) Fixed() string {
	return a.d.StringFixedBank(ReportPrecision)
}
