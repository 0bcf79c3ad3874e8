// Package handler exposes the HTTP API. Request bodies are decoded with
// jx so loosely typed cart scalars reach the validator untouched.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/tillworks/pos-api/internal/domain/auth"
	"github.com/tillworks/pos-api/internal/domain/cart"
	"github.com/tillworks/pos-api/internal/domain/catalog"
	"github.com/tillworks/pos-api/internal/domain/order"
	"github.com/tillworks/pos-api/internal/domain/report"
)

// OrderService is the order workflow surface the handler depends on.
type OrderService interface {
	Create(ctx context.Context, userID int64, lines []cart.RawLine, payments []cart.RawPayment) (*order.Order, error)
	Get(ctx context.Context, id int64) (*order.Order, error)
	List(ctx context.Context, f order.ListFilter) ([]order.Order, error)
}

// Deps holds the domain dependencies for the Handler.
type Deps struct {
	Orders   OrderService
	Reports  report.Aggregator
	Products catalog.ProductRepository
	Methods  catalog.PaymentMethodRepository
	Users    auth.Repository
	Tokens   *auth.Tokens
}

// Handler routes HTTP requests to the domain services.
type Handler struct {
	orders   OrderService
	reports  report.Aggregator
	products catalog.ProductRepository
	methods  catalog.PaymentMethodRepository
	users    auth.Repository
	tokens   *auth.Tokens

	now func() time.Time
}

// New constructs a Handler with the required domain dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		orders:   deps.Orders,
		reports:  deps.Reports,
		products: deps.Products,
		methods:  deps.Methods,
		users:    deps.Users,
		tokens:   deps.Tokens,
		now:      time.Now,
	}
}

// Routes returns the API mux.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/register", h.Register)
	mux.HandleFunc("POST /api/login", h.Login)
	mux.HandleFunc("POST /api/logout", h.Logout)
	mux.HandleFunc("GET /api/me", h.requireAuth(h.Me))

	mux.HandleFunc("GET /api/products", h.requireAuth(h.ListProducts))
	mux.HandleFunc("GET /api/payment-methods", h.requireAuth(h.ListPaymentMethods))

	mux.HandleFunc("POST /api/orders", h.requireAuth(h.CreateOrder))
	mux.HandleFunc("GET /api/orders", h.requireAuth(h.ListOrders))
	mux.HandleFunc("GET /api/orders/{id}", h.requireAuth(h.GetOrder))

	mux.HandleFunc("GET /api/reports/z", h.requireAuth(h.ZReport))
	mux.HandleFunc("GET /api/reports/products", h.requireAuth(h.ProductReport))

	return mux
}
