package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tillworks/pos-api/internal/domain/catalog"
)

const listActiveMethodsSQL = `SELECT id, name, active
	FROM payment_methods WHERE active ORDER BY id`

var _ catalog.PaymentMethodRepository = (*PaymentMethodRepository)(nil)

// PaymentMethodRepository implements catalog.PaymentMethodRepository backed
// by PostgreSQL.
type PaymentMethodRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentMethodRepository returns a PaymentMethodRepository that uses the
// given pool.
func NewPaymentMethodRepository(pool *pgxpool.Pool) *PaymentMethodRepository {
	return &PaymentMethodRepository{pool: pool}
}

// ListActive returns configured tender types ordered by ID.
func (r *PaymentMethodRepository) ListActive(ctx context.Context) ([]catalog.PaymentMethod, error) {
	rows, err := r.pool.Query(ctx, listActiveMethodsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing payment methods: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (catalog.PaymentMethod, error) {
		var m catalog.PaymentMethod
		err := row.Scan(&m.ID, &m.Name, &m.Active)
		return m, err
	})
}

// ActiveMethods returns the id -> name snapshot used to validate carts.
func (r *PaymentMethodRepository) ActiveMethods(ctx context.Context) (map[int64]string, error) {
	methods, err := r.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]string, len(methods))
	for _, m := range methods {
		byID[m.ID] = m.Name
	}
	return byID, nil
}
