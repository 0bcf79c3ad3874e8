package cart

import "github.com/tillworks/pos-api/internal/domain/money"

// Settle computes the subtotal, total tendered, and change for a validated
// cart. It fails with ErrInsufficientPayment when the tendered total does
// not cover the subtotal; change is therefore never negative. Integer
// arithmetic only, no rounding.
func Settle(c *ValidatedCart) (Settlement, error) {
	var subtotal, paid money.Cents
	for _, l := range c.Lines {
		subtotal = subtotal.Add(l.LineTotal)
	}
	for _, p := range c.Payments {
		paid = paid.Add(p.Amount)
	}

	if paid < subtotal {
		return Settlement{}, ErrInsufficientPayment
	}

	return Settlement{
		Subtotal:  subtotal,
		TotalPaid: paid,
		Change:    paid.Sub(subtotal),
	}, nil
}
