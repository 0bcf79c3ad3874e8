package order

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillworks/pos-api/internal/domain/cart"
	"github.com/tillworks/pos-api/internal/domain/catalog"
	"github.com/tillworks/pos-api/internal/domain/money"
)

// --- Mock implementations ---

type mockMethodRepo struct {
	methods map[int64]string
	err     error
}

func (m *mockMethodRepo) ListActive(context.Context) ([]catalog.PaymentMethod, error) {
	return nil, nil
}

func (m *mockMethodRepo) ActiveMethods(context.Context) (map[int64]string, error) {
	return m.methods, m.err
}

type mockProductRepo struct {
	byID map[int64]catalog.Product
	err  error
}

func (m *mockProductRepo) ListActive(context.Context) ([]catalog.Product, error) {
	return nil, nil
}

func (m *mockProductRepo) GetByIDs(_ context.Context, ids []int64) (map[int64]catalog.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[int64]catalog.Product)
	for _, id := range ids {
		if p, ok := m.byID[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type mockLedger struct {
	lastCart       *cart.ValidatedCart
	lastSettlement cart.Settlement
	lastUserID     int64
	commits        int
	err            error
}

func (m *mockLedger) Commit(_ context.Context, userID int64, c *cart.ValidatedCart, s cart.Settlement) (*Order, error) {
	m.commits++
	m.lastUserID = userID
	m.lastCart = c
	m.lastSettlement = s
	if m.err != nil {
		return nil, m.err
	}
	o := &Order{
		ID:        1,
		UserID:    userID,
		Subtotal:  s.Subtotal,
		TotalPaid: s.TotalPaid,
		Change:    s.Change,
	}
	return o, nil
}

func (m *mockLedger) Get(context.Context, int64) (*Order, error) {
	return nil, ErrNotFound
}

func (m *mockLedger) List(context.Context, ListFilter) ([]Order, error) {
	return nil, nil
}

// --- Helpers ---

func cashMethods() *mockMethodRepo {
	return &mockMethodRepo{methods: map[int64]string{1: "Cash"}}
}

func rawLines() []cart.RawLine {
	return []cart.RawLine{
		{ProductID: int64(1), Name: "Espresso", Qty: int64(2), PriceCents: int64(250)},
	}
}

func rawPayments(amount int64) []cart.RawPayment {
	return []cart.RawPayment{{MethodID: int64(1), AmountCents: amount}}
}

// --- Tests ---

func TestCreate_CommitsSettledCart(t *testing.T) {
	ledger := &mockLedger{}
	svc := NewService(cashMethods(), &mockProductRepo{}, ledger, false)

	o, err := svc.Create(context.Background(), 7, rawLines(), rawPayments(600))
	require.NoError(t, err)

	assert.Equal(t, int64(7), o.UserID)
	assert.Equal(t, money.Cents(500), o.Subtotal)
	assert.Equal(t, money.Cents(100), o.Change)
	assert.Equal(t, 1, ledger.commits)
	assert.Equal(t, int64(7), ledger.lastUserID)
}

func TestCreate_ValidationShortCircuitsLedger(t *testing.T) {
	ledger := &mockLedger{}
	svc := NewService(cashMethods(), &mockProductRepo{}, ledger, false)

	_, err := svc.Create(context.Background(), 7, nil, nil)
	require.ErrorIs(t, err, cart.ErrEmptyCart)
	assert.Zero(t, ledger.commits)

	_, err = svc.Create(context.Background(), 7, rawLines(), rawPayments(1))
	require.ErrorIs(t, err, cart.ErrInsufficientPayment)
	assert.Zero(t, ledger.commits)
}

func TestCreate_MethodSnapshotError(t *testing.T) {
	methodErr := errors.New("db down")
	svc := NewService(&mockMethodRepo{err: methodErr}, &mockProductRepo{}, &mockLedger{}, false)

	_, err := svc.Create(context.Background(), 7, rawLines(), nil)
	require.ErrorIs(t, err, methodErr)
	assert.False(t, cart.IsValidationError(err))
}

func TestCreate_LedgerErrorWrapped(t *testing.T) {
	ledgerErr := errors.New("tx failed")
	svc := NewService(cashMethods(), &mockProductRepo{}, &mockLedger{err: ledgerErr}, false)

	_, err := svc.Create(context.Background(), 7, rawLines(), rawPayments(500))
	require.ErrorIs(t, err, ledgerErr)
}

func TestCreate_EnforceCatalogPrices(t *testing.T) {
	products := &mockProductRepo{byID: map[int64]catalog.Product{
		1: {ID: 1, Name: "Espresso", ListPrice: money.Cents(300)},
	}}
	ledger := &mockLedger{}
	svc := NewService(cashMethods(), products, ledger, true)

	// Submitted price is 250, catalog says 300. Payment covers the
	// repriced subtotal.
	o, err := svc.Create(context.Background(), 7, rawLines(), rawPayments(600))
	require.NoError(t, err)
	assert.Equal(t, money.Cents(600), o.Subtotal)
	assert.Equal(t, money.Cents(300), ledger.lastCart.Lines[0].UnitPrice)
}

func TestCreate_EnforceCatalogPrices_UnknownProduct(t *testing.T) {
	ledger := &mockLedger{}
	svc := NewService(cashMethods(), &mockProductRepo{}, ledger, true)

	_, err := svc.Create(context.Background(), 7, rawLines(), rawPayments(600))
	require.ErrorIs(t, err, cart.ErrInvalidLine)
	assert.Zero(t, ledger.commits)
}
