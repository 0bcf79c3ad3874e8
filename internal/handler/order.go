package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/tillworks/pos-api/internal/domain/cart"
	"github.com/tillworks/pos-api/internal/domain/order"
	"github.com/tillworks/pos-api/internal/domain/report"
)

const (
	defaultHistoryLimit = 100
	maxHistoryLimit     = 500
)

// CreateOrder validates, settles, and commits a submitted cart.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, errBadBody.Error())
		return
	}
	lines, payments, err := decodeOrderRequest(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, errBadBody.Error())
		return
	}

	o, err := h.orders.Create(r.Context(), mustUserID(r), lines, payments)
	if err != nil {
		if cart.IsValidationError(err) {
			writeError(w, http.StatusBadRequest, orderErrorMessage(err))
			return
		}
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("ok", func(e *jx.Encoder) { e.Bool(true) })
			e.Field("order", func(e *jx.Encoder) { encodeOrderReceipt(e, o) })
		})
	})
}

// ListOrders returns order history for a date range, optionally filtered
// by product name.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dateRange, err := report.ResolveRange(q.Get("start_date"), q.Get("end_date"), h.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, report.ErrInvalidDate.Error())
		return
	}

	limit := defaultHistoryLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	orders, err := h.orders.List(r.Context(), order.ListFilter{
		Range: dateRange,
		Query: q.Get("q"),
		Limit: limit,
	})
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("orders", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for i := range orders {
						encodeOrderHistory(e, &orders[i])
					}
				})
			})
		})
	})
}

// GetOrder returns a single committed order.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusNotFound, order.ErrNotFound.Error())
		return
	}

	o, err := h.orders.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, order.ErrNotFound.Error())
			return
		}
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("order", func(e *jx.Encoder) { encodeOrderHistory(e, o) })
		})
	})
}

// orderErrorMessage maps validation errors to their stable client-facing
// strings.
func orderErrorMessage(err error) string {
	var unknown *cart.UnknownPaymentMethodError
	if errors.As(err, &unknown) {
		return "payment method not found"
	}
	switch {
	case errors.Is(err, cart.ErrEmptyCart):
		return cart.ErrEmptyCart.Error()
	case errors.Is(err, cart.ErrInvalidLine):
		return cart.ErrInvalidLine.Error()
	case errors.Is(err, cart.ErrInvalidPayment):
		return cart.ErrInvalidPayment.Error()
	case errors.Is(err, cart.ErrInsufficientPayment):
		return cart.ErrInsufficientPayment.Error()
	default:
		return "invalid order"
	}
}

// encodeOrderReceipt renders the write-path receipt shape.
func encodeOrderReceipt(e *jx.Encoder, o *order.Order) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int64(o.ID) })
		e.Field("subtotalCents", func(e *jx.Encoder) { e.Int64(o.Subtotal.Int64()) })
		e.Field("totalPaidCents", func(e *jx.Encoder) { e.Int64(o.TotalPaid.Int64()) })
		e.Field("changeCents", func(e *jx.Encoder) { e.Int64(o.Change.Int64()) })
		e.Field("createdAt", func(e *jx.Encoder) { e.Str(o.CreatedAt.Format(time.RFC3339)) })
		e.Field("lines", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, l := range o.Lines {
					e.Obj(func(e *jx.Encoder) {
						e.Field("id", func(e *jx.Encoder) { e.Int64(l.ID) })
						e.Field("productId", func(e *jx.Encoder) { e.Int64(l.ProductID) })
						e.Field("name", func(e *jx.Encoder) { e.Str(l.Name) })
						e.Field("qty", func(e *jx.Encoder) { e.Int64(l.Qty) })
						e.Field("unitPriceCents", func(e *jx.Encoder) { e.Int64(l.UnitPrice.Int64()) })
						e.Field("lineTotalCents", func(e *jx.Encoder) { e.Int64(l.LineTotal.Int64()) })
						e.Field("comment", func(e *jx.Encoder) { e.Str(l.Comment) })
					})
				}
			})
		})
		e.Field("payments", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, p := range o.Payments {
					e.Obj(func(e *jx.Encoder) {
						e.Field("id", func(e *jx.Encoder) { e.Int64(p.ID) })
						e.Field("methodId", func(e *jx.Encoder) { e.Int64(p.MethodID) })
						e.Field("methodName", func(e *jx.Encoder) { e.Str(p.MethodName) })
						e.Field("amountCents", func(e *jx.Encoder) { e.Int64(p.Amount.Int64()) })
					})
				}
			})
		})
	})
}

// encodeOrderHistory renders the snake_case shape used by history and
// reporting screens.
func encodeOrderHistory(e *jx.Encoder, o *order.Order) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int64(o.ID) })
		e.Field("created_at", func(e *jx.Encoder) { e.Str(o.CreatedAt.Format(time.RFC3339)) })
		e.Field("subtotal_cents", func(e *jx.Encoder) { e.Int64(o.Subtotal.Int64()) })
		e.Field("total_paid_cents", func(e *jx.Encoder) { e.Int64(o.TotalPaid.Int64()) })
		e.Field("change_cents", func(e *jx.Encoder) { e.Int64(o.Change.Int64()) })
		e.Field("lines", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, l := range o.Lines {
					e.Obj(func(e *jx.Encoder) {
						e.Field("product_id", func(e *jx.Encoder) { e.Int64(l.ProductID) })
						e.Field("name", func(e *jx.Encoder) { e.Str(l.Name) })
						e.Field("qty", func(e *jx.Encoder) { e.Int64(l.Qty) })
						e.Field("unit_price_cents", func(e *jx.Encoder) { e.Int64(l.UnitPrice.Int64()) })
						e.Field("line_total_cents", func(e *jx.Encoder) { e.Int64(l.LineTotal.Int64()) })
						e.Field("comment", func(e *jx.Encoder) { e.Str(l.Comment) })
					})
				}
			})
		})
		e.Field("payments", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, p := range o.Payments {
					e.Obj(func(e *jx.Encoder) {
						e.Field("method", func(e *jx.Encoder) { e.Str(p.MethodName) })
						e.Field("amount_cents", func(e *jx.Encoder) { e.Int64(p.Amount.Int64()) })
					})
				}
			})
		})
	})
}
