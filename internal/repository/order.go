package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tillworks/pos-api/internal/domain/cart"
	"github.com/tillworks/pos-api/internal/domain/order"
)

const (
	insertOrderSQL = `INSERT INTO orders (user_id, subtotal_cents, total_paid_cents, change_cents)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at`

	insertOrderLineSQL = `INSERT INTO order_lines (order_id, product_id, name, qty, unit_price_cents, line_total_cents, comment)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, '')) RETURNING id`

	insertPaymentSQL = `INSERT INTO payments (order_id, payment_method_id, amount_cents)
		VALUES ($1, $2, $3) RETURNING id`

	getOrderSQL = `SELECT id, user_id, subtotal_cents, total_paid_cents, change_cents, created_at
		FROM orders WHERE id = $1`

	getOrderLinesSQL = `SELECT id, product_id, name, qty, unit_price_cents, line_total_cents, COALESCE(comment, '')
		FROM order_lines WHERE order_id = $1 ORDER BY id`

	getOrderPaymentsSQL = `SELECT p.id, p.payment_method_id, pm.name, p.amount_cents
		FROM payments p JOIN payment_methods pm ON pm.id = p.payment_method_id
		WHERE p.order_id = $1 ORDER BY p.id`

	listOrdersSQL = `SELECT o.id, o.user_id, o.subtotal_cents, o.total_paid_cents, o.change_cents, o.created_at
		FROM orders o
		WHERE o.created_at::date BETWEEN $1::date AND $2::date
		AND ($3 = '' OR EXISTS (
			SELECT 1 FROM order_lines ol
			WHERE ol.order_id = o.id AND ol.name ILIKE '%' || $3 || '%'))
		ORDER BY o.id DESC LIMIT $4`
)

var _ order.Ledger = (*OrderLedger)(nil)

// OrderLedger implements order.Ledger backed by PostgreSQL. Commit writes
// the header, lines, and payments in one transaction.
type OrderLedger struct {
	pool *pgxpool.Pool
}

// NewOrderLedger returns an OrderLedger that uses the given pool.
func NewOrderLedger(pool *pgxpool.Pool) *OrderLedger {
	return &OrderLedger{pool: pool}
}

// Commit persists a settled cart as an immutable order. Either every row
// lands or none do.
func (l *OrderLedger) Commit(ctx context.Context, userID int64, c *cart.ValidatedCart, s cart.Settlement) (*order.Order, error) {
	tx, err := l.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	o := &order.Order{
		UserID:    userID,
		Subtotal:  s.Subtotal,
		TotalPaid: s.TotalPaid,
		Change:    s.Change,
	}
	err = tx.QueryRow(ctx, insertOrderSQL,
		userID, s.Subtotal, s.TotalPaid, s.Change,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting order: %w", err)
	}

	// Lines and payments go out as one batch; ids come back in queue order.
	var batch pgx.Batch
	for _, cl := range c.Lines {
		batch.Queue(insertOrderLineSQL,
			o.ID, cl.ProductID, cl.Name, cl.Qty, cl.UnitPrice, cl.LineTotal, cl.Comment,
		)
	}
	for _, cp := range c.Payments {
		batch.Queue(insertPaymentSQL, o.ID, cp.MethodID, cp.Amount)
	}

	br := tx.SendBatch(ctx, &batch)

	o.Lines = make([]order.Line, 0, len(c.Lines))
	for _, cl := range c.Lines {
		ol := order.Line{
			ProductID: cl.ProductID,
			Name:      cl.Name,
			Qty:       cl.Qty,
			UnitPrice: cl.UnitPrice,
			LineTotal: cl.LineTotal,
			Comment:   cl.Comment,
		}
		if err := br.QueryRow().Scan(&ol.ID); err != nil {
			_ = br.Close()
			return nil, fmt.Errorf("inserting order line: %w", err)
		}
		o.Lines = append(o.Lines, ol)
	}
	for _, cp := range c.Payments {
		op := order.Payment{
			MethodID:   cp.MethodID,
			MethodName: cp.MethodName,
			Amount:     cp.Amount,
		}
		if err := br.QueryRow().Scan(&op.ID); err != nil {
			_ = br.Close()
			return nil, fmt.Errorf("inserting payment: %w", err)
		}
		o.Payments = append(o.Payments, op)
	}
	if err := br.Close(); err != nil {
		return nil, fmt.Errorf("closing batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing order: %w", err)
	}
	return o, nil
}

// Get returns one order with its lines and payments.
func (l *OrderLedger) Get(ctx context.Context, id int64) (*order.Order, error) {
	rows, err := l.pool.Query(ctx, getOrderSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}

	if err := l.loadDetails(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// List returns orders matching the filter, newest first, with lines and
// payments attached.
func (l *OrderLedger) List(ctx context.Context, f order.ListFilter) ([]order.Order, error) {
	rows, err := l.pool.Query(ctx, listOrdersSQL,
		f.Range.StartDate(), f.Range.EndDate(), f.Query, f.Limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}

	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}

	for i := range orders {
		if err := l.loadDetails(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (l *OrderLedger) loadDetails(ctx context.Context, o *order.Order) error {
	lineRows, err := l.pool.Query(ctx, getOrderLinesSQL, o.ID)
	if err != nil {
		return fmt.Errorf("loading order %d lines: %w", o.ID, err)
	}
	o.Lines, err = pgx.CollectRows(lineRows, func(row pgx.CollectableRow) (order.Line, error) {
		var ol order.Line
		err := row.Scan(&ol.ID, &ol.ProductID, &ol.Name, &ol.Qty, &ol.UnitPrice, &ol.LineTotal, &ol.Comment)
		return ol, err
	})
	if err != nil {
		return fmt.Errorf("loading order %d lines: %w", o.ID, err)
	}

	paymentRows, err := l.pool.Query(ctx, getOrderPaymentsSQL, o.ID)
	if err != nil {
		return fmt.Errorf("loading order %d payments: %w", o.ID, err)
	}
	o.Payments, err = pgx.CollectRows(paymentRows, func(row pgx.CollectableRow) (order.Payment, error) {
		var op order.Payment
		err := row.Scan(&op.ID, &op.MethodID, &op.MethodName, &op.Amount)
		return op, err
	})
	if err != nil {
		return fmt.Errorf("loading order %d payments: %w", o.ID, err)
	}
	return nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var o order.Order
	err := row.Scan(&o.ID, &o.UserID, &o.Subtotal, &o.TotalPaid, &o.Change, &o.CreatedAt)
	return o, err
}
