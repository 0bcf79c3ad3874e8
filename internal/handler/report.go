package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/tillworks/pos-api/internal/domain/report"
)

// ZReport returns the end-of-day summary for a date range.
func (h *Handler) ZReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dateRange, err := report.ResolveRange(q.Get("start_date"), q.Get("end_date"), h.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, report.ErrInvalidDate.Error())
		return
	}

	z, err := h.reports.ZReport(r.Context(), dateRange)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("start_date", func(e *jx.Encoder) { e.Str(z.Range.StartDate()) })
			e.Field("end_date", func(e *jx.Encoder) { e.Str(z.Range.EndDate()) })
			e.Field("totals", func(e *jx.Encoder) {
				e.Obj(func(e *jx.Encoder) {
					e.Field("orders_count", func(e *jx.Encoder) { e.Int64(z.Totals.OrdersCount) })
					e.Field("subtotal_cents", func(e *jx.Encoder) { e.Int64(z.Totals.Subtotal.Int64()) })
					e.Field("paid_cents", func(e *jx.Encoder) { e.Int64(z.Totals.Paid.Int64()) })
					e.Field("change_cents", func(e *jx.Encoder) { e.Int64(z.Totals.Change.Int64()) })
				})
			})
			e.Field("payments_by_method", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for _, mt := range z.ByMethod {
						e.Obj(func(e *jx.Encoder) {
							e.Field("method", func(e *jx.Encoder) { e.Str(mt.Method) })
							e.Field("amount_cents", func(e *jx.Encoder) { e.Int64(mt.Amount.Int64()) })
						})
					}
				})
			})
		})
	})
}

// ProductReport returns per-product sales rows for a date range.
func (h *Handler) ProductReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dateRange, err := report.ResolveRange(q.Get("start_date"), q.Get("end_date"), h.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, report.ErrInvalidDate.Error())
		return
	}

	rows, err := h.reports.ProductReport(r.Context(), dateRange)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("start_date", func(e *jx.Encoder) { e.Str(dateRange.StartDate()) })
			e.Field("end_date", func(e *jx.Encoder) { e.Str(dateRange.EndDate()) })
			e.Field("rows", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for _, row := range rows {
						e.Obj(func(e *jx.Encoder) {
							e.Field("product_id", func(e *jx.Encoder) { e.Int64(row.ProductID) })
							e.Field("name", func(e *jx.Encoder) { e.Str(row.Name) })
							e.Field("unit_price_cents", func(e *jx.Encoder) { e.Int64(row.UnitPrice.Int64()) })
							e.Field("qty", func(e *jx.Encoder) { e.Int64(row.Qty) })
							e.Field("total_cents", func(e *jx.Encoder) { e.Int64(row.Total.Int64()) })
						})
					}
				})
			})
		})
	})
}
