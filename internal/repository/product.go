package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tillworks/pos-api/internal/domain/catalog"
)

const (
	listActiveProductsSQL = `SELECT id, name, alias, category, list_price_cents, image_url, active
		FROM products WHERE active ORDER BY category, name`

	getProductsByIDsSQL = `SELECT id, name, alias, category, list_price_cents, image_url, active
		FROM products WHERE id = ANY($1)`
)

var _ catalog.ProductRepository = (*ProductRepository)(nil)

// ProductRepository implements catalog.ProductRepository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// ListActive returns the sellable catalog ordered by category and name.
func (r *ProductRepository) ListActive(ctx context.Context) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx, listActiveProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByIDs returns products matching any of the given IDs, keyed by ID.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]catalog.Product, error) {
	rows, err := r.pool.Query(ctx, getProductsByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("getting products by ids: %w", err)
	}
	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

func scanProduct(row pgx.CollectableRow) (catalog.Product, error) {
	var p catalog.Product
	err := row.Scan(&p.ID, &p.Name, &p.Alias, &p.Category, &p.ListPrice, &p.ImageURL, &p.Active)
	return p, err
}
