package cart

import (
	"fmt"

	"github.com/go-faster/errors"
)

// Sentinel validation errors. All are caller-fixable (400-class); they are
// detected before any write begins and fail the whole cart.
var (
	ErrEmptyCart           = errors.New("no order lines")
	ErrInvalidLine         = errors.New("invalid line item")
	ErrInvalidPayment      = errors.New("invalid payment")
	ErrInsufficientPayment = errors.New("insufficient payment")
)

// UnknownPaymentMethodError indicates a payment references a method that is
// not in the active set.
type UnknownPaymentMethodError struct {
	MethodID int64
}

func (e *UnknownPaymentMethodError) Error() string {
	return fmt.Sprintf("payment method %d not found", e.MethodID)
}

// IsValidationError reports whether err belongs to the cart validation
// taxonomy, as opposed to an infrastructure failure.
func IsValidationError(err error) bool {
	var unknown *UnknownPaymentMethodError
	return errors.Is(err, ErrEmptyCart) ||
		errors.Is(err, ErrInvalidLine) ||
		errors.Is(err, ErrInvalidPayment) ||
		errors.Is(err, ErrInsufficientPayment) ||
		errors.As(err, &unknown)
}
