// Package order holds the committed order entities and the service that
// turns raw carts into ledger entries.
package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/tillworks/pos-api/internal/domain/cart"
	"github.com/tillworks/pos-api/internal/domain/money"
	"github.com/tillworks/pos-api/internal/domain/report"
)

// ErrNotFound indicates the requested order does not exist.
var ErrNotFound = errors.New("order not found")

// Order is a committed, immutable settlement record.
type Order struct {
	ID        int64
	UserID    int64
	Subtotal  money.Cents
	TotalPaid money.Cents
	Change    money.Cents
	CreatedAt time.Time
	Lines     []Line
	Payments  []Payment
}

// Line is a persisted order line. Name and UnitPrice are frozen at commit
// time so later catalog edits never rewrite history.
type Line struct {
	ID        int64
	ProductID int64
	Name      string
	Qty       int64
	UnitPrice money.Cents
	LineTotal money.Cents
	Comment   string
}

// Payment is a persisted tender entry.
type Payment struct {
	ID         int64
	MethodID   int64
	MethodName string
	Amount     money.Cents
}

// ListFilter narrows the order history query.
type ListFilter struct {
	Range report.DateRange
	// Query filters to orders containing a line whose product name
	// matches, case-insensitively.
	Query string
	Limit int
}

// Ledger is the durable store of committed orders. Commit writes the
// order header, lines, and payments atomically.
type Ledger interface {
	Commit(ctx context.Context, userID int64, c *cart.ValidatedCart, s cart.Settlement) (*Order, error)
	Get(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context, f ListFilter) ([]Order, error)
}
