package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/tillworks/pos-api/internal/domain/report"
)

const (
	zTotalsSQL = `SELECT COUNT(*),
			COALESCE(SUM(subtotal_cents), 0),
			COALESCE(SUM(total_paid_cents), 0),
			COALESCE(SUM(change_cents), 0)
		FROM orders
		WHERE created_at::date BETWEEN $1::date AND $2::date`

	zMethodsSQL = `SELECT pm.name, COALESCE(SUM(p.amount_cents), 0)
		FROM payments p
		JOIN payment_methods pm ON pm.id = p.payment_method_id
		JOIN orders o ON o.id = p.order_id
		WHERE o.created_at::date BETWEEN $1::date AND $2::date
		GROUP BY pm.id, pm.name
		ORDER BY pm.id`

	productReportSQL = `SELECT ol.product_id, ol.name, ol.unit_price_cents,
			SUM(ol.qty), SUM(ol.line_total_cents)
		FROM order_lines ol
		JOIN orders o ON o.id = ol.order_id
		WHERE o.created_at::date BETWEEN $1::date AND $2::date
		GROUP BY ol.product_id, ol.name, ol.unit_price_cents
		ORDER BY ol.name, ol.unit_price_cents DESC`
)

var _ report.Aggregator = (*ReportAggregator)(nil)

// ReportAggregator implements report.Aggregator with SQL aggregation over
// committed orders.
type ReportAggregator struct {
	pool *pgxpool.Pool
}

// NewReportAggregator returns a ReportAggregator that uses the given pool.
func NewReportAggregator(pool *pgxpool.Pool) *ReportAggregator {
	return &ReportAggregator{pool: pool}
}

// ZReport computes order totals and the per-method tender breakdown for
// the range. The two aggregate queries run concurrently.
func (a *ReportAggregator) ZReport(ctx context.Context, r report.DateRange) (*report.ZReport, error) {
	z := &report.ZReport{Range: r}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := a.pool.QueryRow(ctx, zTotalsSQL, r.StartDate(), r.EndDate()).Scan(
			&z.Totals.OrdersCount, &z.Totals.Subtotal, &z.Totals.Paid, &z.Totals.Change,
		)
		if err != nil {
			return fmt.Errorf("aggregating order totals: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		rows, err := a.pool.Query(ctx, zMethodsSQL, r.StartDate(), r.EndDate())
		if err != nil {
			return fmt.Errorf("aggregating payment methods: %w", err)
		}
		byMethod, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (report.MethodTotal, error) {
			var mt report.MethodTotal
			err := row.Scan(&mt.Method, &mt.Amount)
			return mt, err
		})
		if err != nil {
			return fmt.Errorf("aggregating payment methods: %w", err)
		}
		z.ByMethod = byMethod
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if z.ByMethod == nil {
		z.ByMethod = []report.MethodTotal{}
	}
	return z, nil
}

// ProductReport returns per-product sales rows for the range, grouped by
// unit price so price changes stay visible.
func (a *ReportAggregator) ProductReport(ctx context.Context, r report.DateRange) ([]report.ProductRow, error) {
	rows, err := a.pool.Query(ctx, productReportSQL, r.StartDate(), r.EndDate())
	if err != nil {
		return nil, fmt.Errorf("aggregating product sales: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (report.ProductRow, error) {
		var pr report.ProductRow
		err := row.Scan(&pr.ProductID, &pr.Name, &pr.UnitPrice, &pr.Qty, &pr.Total)
		return pr, err
	})
	if err != nil {
		return nil, fmt.Errorf("aggregating product sales: %w", err)
	}
	if out == nil {
		out = []report.ProductRow{}
	}
	return out, nil
}
