package cart

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-faster/errors"

	"github.com/tillworks/pos-api/internal/domain/money"
)

// Validate normalizes raw lines and payments into a ValidatedCart against
// the given snapshot of active payment methods (id -> display name).
//
// It is a pure transformation: no partial acceptance, no side effects.
// Any malformed line fails the whole cart with ErrInvalidLine; malformed
// payments fail with ErrInvalidPayment or UnknownPaymentMethodError.
// Zero-amount payments are validated but excluded from the output so they
// never become ledger rows.
func Validate(lines []RawLine, payments []RawPayment, methods map[int64]string) (*ValidatedCart, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	out := &ValidatedCart{
		Lines: make([]Line, 0, len(lines)),
	}

	for _, rl := range lines {
		l, err := validateLine(rl)
		if err != nil {
			return nil, err
		}
		out.Lines = append(out.Lines, l)
	}

	for _, rp := range payments {
		methodID, err := toInt(rp.MethodID)
		if err != nil {
			return nil, ErrInvalidPayment
		}
		amount, err := toInt(rp.AmountCents)
		if err != nil || methodID <= 0 || amount < 0 {
			return nil, ErrInvalidPayment
		}

		name, ok := methods[methodID]
		if !ok {
			return nil, &UnknownPaymentMethodError{MethodID: methodID}
		}

		if amount == 0 {
			continue
		}
		out.Payments = append(out.Payments, Payment{
			MethodID:   methodID,
			MethodName: name,
			Amount:     money.Cents(amount),
		})
	}

	return out, nil
}

func validateLine(rl RawLine) (Line, error) {
	productID, err := toInt(rl.ProductID)
	if err != nil {
		return Line{}, ErrInvalidLine
	}
	name, err := toString(rl.Name)
	if err != nil {
		return Line{}, ErrInvalidLine
	}
	name = strings.TrimSpace(name)

	qty, err := toInt(rl.Qty)
	if err != nil {
		return Line{}, ErrInvalidLine
	}

	// Explicit price wins over the echoed catalog list price.
	priceRaw := rl.PriceCents
	if priceRaw == nil {
		priceRaw = rl.ListPriceCents
	}
	price, err := toInt(priceRaw)
	if err != nil {
		return Line{}, ErrInvalidLine
	}

	comment, err := toString(rl.Comment)
	if err != nil {
		return Line{}, ErrInvalidLine
	}

	if productID <= 0 || name == "" || qty <= 0 || price < 0 {
		return Line{}, ErrInvalidLine
	}

	lineTotal, err := money.Cents(price).MulQty(qty)
	if err != nil {
		return Line{}, ErrInvalidLine
	}

	return Line{
		ProductID: productID,
		Name:      name,
		Qty:       qty,
		UnitPrice: money.Cents(price),
		LineTotal: lineTotal,
		Comment:   strings.TrimSpace(comment),
	}, nil
}

// toInt coerces a loosely typed JSON scalar to int64. Missing values
// coerce to zero and fall out at the range checks; non-integral numbers
// are rejected rather than truncated, since truncation would silently
// change the amount of money charged.
func toInt(v any) (int64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	case float64:
		// float64 cannot represent math.MaxInt64 exactly, so the upper
		// bound is the first value that no longer fits in int64.
		if t != math.Trunc(t) || t < math.MinInt64 || t >= 1<<63 {
			return 0, errors.New("not an integer")
		}
		return int64(t), nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, errors.Wrap(err, "parse integer")
		}
		return n, nil
	default:
		return 0, errors.Errorf("unsupported type %T", v)
	}
}

func toString(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	default:
		return "", errors.Errorf("unsupported type %T", v)
	}
}
