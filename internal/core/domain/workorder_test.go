package domain

import "testing"

func TestCalculateTotals(t *testing.T) {
	items := []WorkItem{
		{Description: "Cambio de cadena", Quantity: 1, UnitPrice: 1000, Total: 1000, Category: ItemPart},
		{Description: "Mano de obra", Quantity: 2, UnitPrice: 1000, Total: 2000, Category: ItemLabor},
	}

	subtotal, iva, total := CalculateTotals(items)
	if subtotal != 3000 {
		t.Errorf("subtotal = %d, want 3000", subtotal)
	}
	if iva != 570 {
		t.Errorf("iva = %d, want 570", iva)
	}
	if total != 3570 {
		t.Errorf("total = %d, want 3570", total)
	}
}

func TestCalculateTotalsRoundsTax(t *testing.T) {
	// 19% of 1001 is 190.19, rounds down; 19% of 997 is 189.43
	cases := []struct {
		subtotal int64
		wantIVA  int64
	}{
		{1001, 190},
		{997, 189},
		{50, 10}, // 9.5 rounds half-up
		{0, 0},
	}
	for _, tc := range cases {
		_, iva, total := CalculateTotals([]WorkItem{{Total: tc.subtotal}})
		if iva != tc.wantIVA {
			t.Errorf("iva of %d = %d, want %d", tc.subtotal, iva, tc.wantIVA)
		}
		if total != tc.subtotal+iva {
			t.Errorf("total of %d = %d, want subtotal+iva", tc.subtotal, total)
		}
	}
}

func TestCalculateTotalsEmpty(t *testing.T) {
	subtotal, iva, total := CalculateTotals(nil)
	if subtotal != 0 || iva != 0 || total != 0 {
		t.Errorf("empty order should cost nothing, got %d/%d/%d", subtotal, iva, total)
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to WorkOrderStatus
		want     bool
	}{
		{OrderPending, OrderInProgress, true},
		{OrderPending, OrderCompleted, false},
		{OrderInProgress, OrderWaitingParts, true},
		{OrderInProgress, OrderCompleted, true},
		{OrderWaitingParts, OrderInProgress, true},
		{OrderWaitingParts, OrderCompleted, true},
		{OrderCompleted, OrderDelivered, true},
		{OrderCompleted, OrderInProgress, false},
		{OrderDelivered, OrderCancelled, false},
		{OrderCancelled, OrderPending, false},
		{OrderPending, OrderCancelled, true},
		{OrderInProgress, OrderCancelled, true},
		{OrderWaitingParts, OrderCancelled, true},
		{OrderCompleted, OrderCancelled, true},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	all := []WorkOrderStatus{
		OrderPending, OrderInProgress, OrderWaitingParts,
		OrderCompleted, OrderDelivered, OrderCancelled,
	}
	for _, to := range all {
		if CanTransition(OrderDelivered, to) {
			t.Errorf("delivered must be terminal, allows %s", to)
		}
		if CanTransition(OrderCancelled, to) {
			t.Errorf("cancelled must be terminal, allows %s", to)
		}
	}
}
