// Package report defines the sales reporting types and date range rules.
package report

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/tillworks/pos-api/internal/domain/money"
)

// ErrInvalidDate indicates an unparseable or inverted report date range.
var ErrInvalidDate = errors.New("invalid date range")

const dateLayout = "2006-01-02"

// DateRange is an inclusive calendar-day interval. Orders are bucketed by
// the calendar date of their creation timestamp.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// StartDate returns the range start formatted for SQL date comparison.
func (r DateRange) StartDate() string { return r.Start.Format(dateLayout) }

// EndDate returns the range end formatted for SQL date comparison.
func (r DateRange) EndDate() string { return r.End.Format(dateLayout) }

// ResolveRange interprets the optional start and end query parameters.
// Both empty defaults to today; a single bound fills the other so the
// range is always closed. Start after end is an error.
func ResolveRange(start, end string, now time.Time) (DateRange, error) {
	if start == "" && end == "" {
		today := now.Format(dateLayout)
		start, end = today, today
	} else if start == "" {
		start = end
	} else if end == "" {
		end = start
	}

	s, err := time.ParseInLocation(dateLayout, start, now.Location())
	if err != nil {
		return DateRange{}, errors.Wrap(ErrInvalidDate, start)
	}
	e, err := time.ParseInLocation(dateLayout, end, now.Location())
	if err != nil {
		return DateRange{}, errors.Wrap(ErrInvalidDate, end)
	}
	if s.After(e) {
		return DateRange{}, ErrInvalidDate
	}
	return DateRange{Start: s, End: e}, nil
}

// Totals is the order-level aggregate for a date range.
type Totals struct {
	OrdersCount int64
	Subtotal    money.Cents
	Paid        money.Cents
	Change      money.Cents
}

// MethodTotal is the tendered amount grouped by payment method.
type MethodTotal struct {
	Method string
	Amount money.Cents
}

// ZReport is the end-of-day summary: totals plus a per-method breakdown.
type ZReport struct {
	Range    DateRange
	Totals   Totals
	ByMethod []MethodTotal
}

// ProductRow is one line of the product sales report, grouped by product
// and unit price so price changes within the range stay visible.
type ProductRow struct {
	ProductID int64
	Name      string
	UnitPrice money.Cents
	Qty       int64
	Total     money.Cents
}

// Aggregator computes reports from committed orders.
type Aggregator interface {
	ZReport(ctx context.Context, r DateRange) (*ZReport, error)
	ProductReport(ctx context.Context, r DateRange) ([]ProductRow, error)
}
