package order

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/tillworks/pos-api/internal/domain/cart"
	"github.com/tillworks/pos-api/internal/domain/catalog"
)

// Service validates, settles, and commits orders.
type Service struct {
	methods  catalog.PaymentMethodRepository
	products catalog.ProductRepository
	ledger   Ledger

	// enforceCatalogPrices replaces client-submitted unit prices with the
	// current catalog list price before settlement.
	enforceCatalogPrices bool
}

// NewService builds the order service.
func NewService(
	methods catalog.PaymentMethodRepository,
	products catalog.ProductRepository,
	ledger Ledger,
	enforceCatalogPrices bool,
) *Service {
	return &Service{
		methods:              methods,
		products:             products,
		ledger:               ledger,
		enforceCatalogPrices: enforceCatalogPrices,
	}
}

// Create validates the raw cart against a fresh payment method snapshot,
// settles it, and commits the result under the acting user. Validation and
// settlement failures surface before any write begins.
func (s *Service) Create(ctx context.Context, userID int64, lines []cart.RawLine, payments []cart.RawPayment) (*Order, error) {
	methods, err := s.methods.ActiveMethods(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load payment methods")
	}

	validated, err := cart.Validate(lines, payments, methods)
	if err != nil {
		return nil, err
	}

	if s.enforceCatalogPrices {
		if err := s.repriceFromCatalog(ctx, validated); err != nil {
			return nil, err
		}
	}

	settlement, err := cart.Settle(validated)
	if err != nil {
		return nil, err
	}

	o, err := s.ledger.Commit(ctx, userID, validated, settlement)
	if err != nil {
		return nil, errors.Wrap(err, "commit order")
	}
	return o, nil
}

// Get fetches one committed order with its lines and payments.
func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.ledger.Get(ctx, id)
}

// List returns order history matching the filter, newest first.
func (s *Service) List(ctx context.Context, f ListFilter) ([]Order, error) {
	return s.ledger.List(ctx, f)
}

// repriceFromCatalog overwrites each line's unit price with the current
// catalog list price. Lines naming unknown products are rejected since
// there is no price of record to charge.
func (s *Service) repriceFromCatalog(ctx context.Context, c *cart.ValidatedCart) error {
	ids := make([]int64, 0, len(c.Lines))
	for _, l := range c.Lines {
		ids = append(ids, l.ProductID)
	}
	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return errors.Wrap(err, "load products")
	}

	for i := range c.Lines {
		p, ok := products[c.Lines[i].ProductID]
		if !ok {
			return cart.ErrInvalidLine
		}
		total, err := p.ListPrice.MulQty(c.Lines[i].Qty)
		if err != nil {
			return cart.ErrInvalidLine
		}
		c.Lines[i].UnitPrice = p.ListPrice
		c.Lines[i].LineTotal = total
	}
	return nil
}
