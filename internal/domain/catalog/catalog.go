// Package catalog holds the sellable product and payment method entities.
package catalog

import (
	"context"

	"github.com/tillworks/pos-api/internal/domain/money"
)

// Product is a sellable catalog item. ListPrice is advisory for clients
// building carts; the submitted cart price is what gets charged unless
// catalog price enforcement is enabled.
type Product struct {
	ID        int64
	Name      string
	Alias     string
	Category  string
	ListPrice money.Cents
	ImageURL  string
	Active    bool
}

// PaymentMethod is a configured tender type such as cash or card.
type PaymentMethod struct {
	ID     int64
	Name   string
	Active bool
}

// ProductRepository provides read access to the product catalog.
type ProductRepository interface {
	ListActive(ctx context.Context) ([]Product, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]Product, error)
}

// PaymentMethodRepository provides read access to configured tender types.
type PaymentMethodRepository interface {
	ListActive(ctx context.Context) ([]PaymentMethod, error)
	// ActiveMethods returns the id -> name snapshot used to validate
	// carts. A fresh snapshot is taken per order.
	ActiveMethods(ctx context.Context) (map[int64]string, error)
}
