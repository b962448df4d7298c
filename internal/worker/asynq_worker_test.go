package worker

import (
	"testing"

	"github.com/washpoint-next/internal/models"

	"github.com/shopspring/decimal"
)

func TestBuildReceiptLinesNilOrder(t *testing.T) {
	if got := buildReceiptLines(nil); got != nil {
		t.Fatalf("expected nil lines for nil order, got %v", got)
	}
	if got := buildReceiptLines(&models.Order{}); got != nil {
		t.Fatalf("expected nil lines for order without items, got %v", got)
	}
}

func TestBuildReceiptLinesSkipsBlankNames(t *testing.T) {
	order := &models.Order{
		Items: []models.OrderItem{
			{BasketNumber: 1, ServiceName: "Basic Wash", Price: models.NewMoneyFromDecimal(decimal.NewFromInt(65))},
			{BasketNumber: 1, ServiceName: "   ", Price: models.NewMoneyFromDecimal(decimal.NewFromInt(10))},
			{BasketNumber: 2, ServiceName: "Fold & Pack", Price: models.NewMoneyFromDecimal(decimal.NewFromInt(30))},
		},
	}

	got := buildReceiptLines(order)
	if len(got) != 2 {
		t.Fatalf("expected 2 lines, got %d: %v", len(got), got)
	}
	want0 := "Basket 1  Basic Wash           65.00"
	if got[0] != want0 {
		t.Fatalf("unexpected first line, want %q, got %q", want0, got[0])
	}
	want1 := "Basket 2  Fold & Pack          30.00"
	if got[1] != want1 {
		t.Fatalf("unexpected second line, want %q, got %q", want1, got[1])
	}
}
