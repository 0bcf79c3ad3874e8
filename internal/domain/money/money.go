// Package money provides the integer-cent amount type used by the
// settlement engine. Amounts never pass through floating point.
package money

import (
	"fmt"

	"github.com/go-faster/errors"
)

// ErrOverflow is returned when an arithmetic result does not fit in int64.
var ErrOverflow = errors.New("amount overflow")

// Cents is a monetary amount in integer cents.
type Cents int64

// Add returns the sum of two amounts.
func (c Cents) Add(x Cents) Cents { return c + x }

// Sub returns the difference of two amounts.
func (c Cents) Sub(x Cents) Cents { return c - x }

// IsZero reports whether the amount is zero.
func (c Cents) IsZero() bool { return c == 0 }

// IsNegative reports whether the amount is below zero.
func (c Cents) IsNegative() bool { return c < 0 }

// Int64 returns the raw cent count.
func (c Cents) Int64() int64 { return int64(c) }

// MulQty multiplies a non-negative unit price by a non-negative quantity
// with an overflow check.
func (c Cents) MulQty(qty int64) (Cents, error) {
	if c < 0 || qty < 0 {
		return 0, errors.New("negative operand")
	}
	if c == 0 || qty == 0 {
		return 0, nil
	}
	r := int64(c) * qty
	if r/qty != int64(c) {
		return 0, ErrOverflow
	}
	return Cents(r), nil
}

// String renders the amount as dollars for logs and error messages.
func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s$%d.%02d", sign, v/100, v%100)
}
