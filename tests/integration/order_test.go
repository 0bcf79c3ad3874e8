//go:build integration

package integration

import (
	"net/http"
	"strconv"
	"testing"
)

func espressoLine(qty int64) orderLineRequest {
	return orderLineRequest{ProductID: 1, Name: "Espresso", Qty: qty, PriceCents: 250}
}

func TestCreateOrder_NoSession(t *testing.T) {
	s := newSession(t)
	resp := s.post(t, "/api/orders", orderRequest{
		Lines: []orderLineRequest{espressoLine(1)},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	body := decodeJSON[errorResponse](t, resp)
	if body.Error != "login required" {
		t.Errorf("error: got %q, want %q", body.Error, "login required")
	}
}

func TestCreateOrder_WithChange(t *testing.T) {
	s := registeredSession(t, "order-change")

	resp := s.post(t, "/api/orders", orderRequest{
		Lines: []orderLineRequest{
			espressoLine(2),
			{ProductID: 5, Name: "Croissant", Qty: 1, PriceCents: 200, Comment: "warm"},
		},
		Payments: []paymentRequest{{MethodID: 1, AmountCents: 1000}},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	receipt := decodeJSON[receiptResponse](t, resp)
	if !receipt.OK {
		t.Fatal("expected ok response")
	}
	if receipt.Order.SubtotalCents != 700 {
		t.Errorf("subtotal: got %d, want 700", receipt.Order.SubtotalCents)
	}
	if receipt.Order.ChangeCents != 300 {
		t.Errorf("change: got %d, want 300", receipt.Order.ChangeCents)
	}
	if len(receipt.Order.Lines) != 2 {
		t.Fatalf("lines: got %d, want 2", len(receipt.Order.Lines))
	}
	if receipt.Order.Lines[0].LineTotalCents != 500 {
		t.Errorf("line total: got %d, want 500", receipt.Order.Lines[0].LineTotalCents)
	}
	if len(receipt.Order.Payments) != 1 || receipt.Order.Payments[0].MethodName != "Cash" {
		t.Errorf("payments: got %+v", receipt.Order.Payments)
	}
}

func TestCreateOrder_SplitPayment(t *testing.T) {
	s := registeredSession(t, "order-split")

	resp := s.post(t, "/api/orders", orderRequest{
		Lines: []orderLineRequest{espressoLine(2)},
		Payments: []paymentRequest{
			{MethodID: 1, AmountCents: 300},
			{MethodID: 3, AmountCents: 200},
		},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	receipt := decodeJSON[receiptResponse](t, resp)
	if receipt.Order.ChangeCents != 0 {
		t.Errorf("change: got %d, want 0", receipt.Order.ChangeCents)
	}
	if len(receipt.Order.Payments) != 2 {
		t.Errorf("payments: got %d, want 2", len(receipt.Order.Payments))
	}
}

func TestCreateOrder_ValidationFailures(t *testing.T) {
	s := registeredSession(t, "order-invalid")

	cases := []struct {
		name    string
		req     orderRequest
		wantMsg string
	}{
		{
			name:    "empty cart",
			req:     orderRequest{},
			wantMsg: "no order lines",
		},
		{
			name: "zero qty",
			req: orderRequest{
				Lines: []orderLineRequest{{ProductID: 1, Name: "Espresso", Qty: 0, PriceCents: 250}},
			},
			wantMsg: "invalid line item",
		},
		{
			name: "unknown payment method",
			req: orderRequest{
				Lines:    []orderLineRequest{espressoLine(1)},
				Payments: []paymentRequest{{MethodID: 99, AmountCents: 250}},
			},
			wantMsg: "payment method not found",
		},
		{
			name: "insufficient payment",
			req: orderRequest{
				Lines:    []orderLineRequest{espressoLine(2)},
				Payments: []paymentRequest{{MethodID: 1, AmountCents: 499}},
			},
			wantMsg: "insufficient payment",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := s.post(t, "/api/orders", tc.req)
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
			body := decodeJSON[errorResponse](t, resp)
			if body.Error != tc.wantMsg {
				t.Errorf("error: got %q, want %q", body.Error, tc.wantMsg)
			}
		})
	}

	// Failed carts must not appear in history.
	resp := s.get(t, "/api/orders?q=Espresso")
	defer resp.Body.Close()
	history := decodeJSON[historyResponse](t, resp)
	for _, o := range history.Orders {
		for _, p := range o.Payments {
			if p.AmountCents == 499 {
				t.Error("rejected cart leaked into history")
			}
		}
	}
}

func TestOrderHistoryAndDetail(t *testing.T) {
	s := registeredSession(t, "order-history")

	resp := s.post(t, "/api/orders", orderRequest{
		Lines:    []orderLineRequest{{ProductID: 7, Name: "Soup of the Day", Qty: 1, PriceCents: 490}},
		Payments: []paymentRequest{{MethodID: 1, AmountCents: 500}},
	})
	created := decodeJSON[receiptResponse](t, resp)
	resp.Body.Close()

	// History filtered by product name.
	resp = s.get(t, "/api/orders?q=soup")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	history := decodeJSON[historyResponse](t, resp)
	found := false
	for _, o := range history.Orders {
		if o.ID == created.Order.ID {
			found = true
			if o.ChangeCents != 10 {
				t.Errorf("change: got %d, want 10", o.ChangeCents)
			}
		}
	}
	if !found {
		t.Fatalf("order %d not in filtered history", created.Order.ID)
	}

	// Detail endpoint.
	detail := s.get(t, "/api/orders/"+strconv.FormatInt(created.Order.ID, 10))
	defer detail.Body.Close()
	if detail.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", detail.StatusCode)
	}

	wrapped := decodeJSON[struct {
		Order historyOrder `json:"order"`
	}](t, detail)
	if len(wrapped.Order.Lines) != 1 || wrapped.Order.Lines[0].Name != "Soup of the Day" {
		t.Errorf("detail lines: got %+v", wrapped.Order.Lines)
	}
}
