//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestZReportAndProductReport(t *testing.T) {
	s := registeredSession(t, "reporter")

	// Two orders today: 2x Espresso cash with change, 1x Cake by card.
	resp := s.post(t, "/api/orders", orderRequest{
		Lines:    []orderLineRequest{espressoLine(2)},
		Payments: []paymentRequest{{MethodID: 1, AmountCents: 600}},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("seed order 1: got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = s.post(t, "/api/orders", orderRequest{
		Lines:    []orderLineRequest{{ProductID: 8, Name: "Chocolate Cake", Qty: 1, PriceCents: 420}},
		Payments: []paymentRequest{{MethodID: 3, AmountCents: 420}},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("seed order 2: got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Z report defaults to today and must reflect both orders.
	resp = s.get(t, "/api/reports/z")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("z report: got %d", resp.StatusCode)
	}

	z := decodeJSON[zReportResponse](t, resp)
	if z.Totals.OrdersCount < 2 {
		t.Errorf("orders_count: got %d, want >= 2", z.Totals.OrdersCount)
	}
	if z.Totals.PaidCents < z.Totals.SubtotalCents {
		t.Errorf("paid %d below subtotal %d", z.Totals.PaidCents, z.Totals.SubtotalCents)
	}
	methods := map[string]int64{}
	for _, m := range z.PaymentsByMethod {
		methods[m.Method] = m.AmountCents
	}
	if methods["Cash"] < 600 {
		t.Errorf("cash total: got %d, want >= 600", methods["Cash"])
	}
	if methods["Card"] < 420 {
		t.Errorf("card total: got %d, want >= 420", methods["Card"])
	}

	// Product report groups by product and unit price.
	resp2 := s.get(t, "/api/reports/products")
	defer resp2.Body.Close()
	report := decodeJSON[productReportResponse](t, resp2)

	var espressoQty, cakeTotal int64
	for _, row := range report.Rows {
		switch {
		case row.Name == "Espresso" && row.UnitPriceCents == 250:
			espressoQty = row.Qty
		case row.Name == "Chocolate Cake":
			cakeTotal = row.TotalCents
		}
	}
	if espressoQty < 2 {
		t.Errorf("espresso qty: got %d, want >= 2", espressoQty)
	}
	if cakeTotal < 420 {
		t.Errorf("cake total: got %d, want >= 420", cakeTotal)
	}
}

func TestZReport_InvalidRange(t *testing.T) {
	s := registeredSession(t, "reporter-invalid")

	resp := s.get(t, "/api/reports/z?start_date=2024-05-10&end_date=2024-05-01")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestZReport_EmptyRange(t *testing.T) {
	s := registeredSession(t, "reporter-empty")

	resp := s.get(t, "/api/reports/z?start_date=2000-01-01&end_date=2000-01-01")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	z := decodeJSON[zReportResponse](t, resp)
	if z.Totals.OrdersCount != 0 || z.Totals.SubtotalCents != 0 {
		t.Errorf("expected zero totals, got %+v", z.Totals)
	}
	if z.PaymentsByMethod == nil {
		t.Error("payments_by_method should be an empty array, not null")
	}
}
