package handler

import (
	"net/http"

	"github.com/go-faster/jx"
)

// ListProducts returns the sellable catalog for cart building.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListActive(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("products", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for _, p := range products {
						e.Obj(func(e *jx.Encoder) {
							e.Field("id", func(e *jx.Encoder) { e.Int64(p.ID) })
							e.Field("name", func(e *jx.Encoder) { e.Str(p.Name) })
							e.Field("alias", func(e *jx.Encoder) { e.Str(p.Alias) })
							e.Field("category", func(e *jx.Encoder) { e.Str(p.Category) })
							e.Field("listPriceCents", func(e *jx.Encoder) { e.Int64(p.ListPrice.Int64()) })
							e.Field("imageUrl", func(e *jx.Encoder) { e.Str(p.ImageURL) })
							e.Field("isActive", func(e *jx.Encoder) { e.Bool(p.Active) })
						})
					}
				})
			})
		})
	})
}

// ListPaymentMethods returns the active tender types.
func (h *Handler) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	methods, err := h.methods.ListActive(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("methods", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for _, m := range methods {
						e.Obj(func(e *jx.Encoder) {
							e.Field("id", func(e *jx.Encoder) { e.Int64(m.ID) })
							e.Field("name", func(e *jx.Encoder) { e.Str(m.Name) })
						})
					}
				})
			})
		})
	})
}
