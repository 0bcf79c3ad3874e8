// Package cart converts raw client-submitted carts into validated,
// integer-priced structures and settles them.
package cart

import "github.com/tillworks/pos-api/internal/domain/money"

// RawLine is a client-submitted line item before validation. Scalar fields
// are loosely typed because JSON clients may send numbers or numeric
// strings; the validator owns every coercion rule.
type RawLine struct {
	ProductID      any
	Name           any
	Qty            any
	PriceCents     any // explicit unit price; wins over ListPriceCents
	ListPriceCents any
	Comment        any
}

// RawPayment is a client-submitted payment entry before validation.
type RawPayment struct {
	MethodID    any
	AmountCents any
}

// Line is a validated order line. LineTotal is always Qty * UnitPrice.
type Line struct {
	ProductID int64
	Name      string
	Qty       int64
	UnitPrice money.Cents
	LineTotal money.Cents
	Comment   string
}

// Payment is a validated, non-zero payment entry.
type Payment struct {
	MethodID   int64
	MethodName string
	Amount     money.Cents
}

// ValidatedCart holds the typed output of Validate. Payments excludes
// zero-amount entries; they are validated but never persisted.
type ValidatedCart struct {
	Lines    []Line
	Payments []Payment
}

// Settlement is the computed money summary for a validated cart.
type Settlement struct {
	Subtotal  money.Cents
	TotalPaid money.Cents
	Change    money.Cents
}
