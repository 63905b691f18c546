package product

import (
	"testing"

	pkgerrors "github.com/angelmondragon/inventory-service/pkg/errors"
)

func TestEnforceStockFloor(t *testing.T) {
	p := &Product{StockQuantity: -4}
	p.EnforceStockFloor()
	if p.StockQuantity != 0 {
		t.Fatalf("expected negative stock to clamp to 0, got %d", p.StockQuantity)
	}

	p.StockQuantity = 7
	p.EnforceStockFloor()
	if p.StockQuantity != 7 {
		t.Fatalf("expected positive stock to be kept, got %d", p.StockQuantity)
	}
}

func TestIsLowStockIsStrict(t *testing.T) {
	tests := []struct {
		stock, threshold int
		want             bool
	}{
		{stock: 0, threshold: 5, want: true},
		{stock: 4, threshold: 5, want: true},
		{stock: 5, threshold: 5, want: false},
		{stock: 6, threshold: 5, want: false},
		{stock: 0, threshold: 0, want: false},
	}
	for _, tt := range tests {
		p := Product{StockQuantity: tt.stock, LowStockThreshold: tt.threshold}
		if got := p.IsLowStock(); got != tt.want {
			t.Fatalf("stock=%d threshold=%d: expected %v got %v", tt.stock, tt.threshold, tt.want, got)
		}
	}
}

func TestProductValidate(t *testing.T) {
	if err := (Product{Name: "Widget"}).Validate(); err != nil {
		t.Fatalf("expected valid product, got %v", err)
	}

	err := (Product{Name: "  ", LowStockThreshold: -1}).Validate()
	msgs := pkgerrors.FieldMessages(err)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 field errors, got %v", msgs)
	}
	if msgs[0] != "name is required" {
		t.Fatalf("unexpected first message %q", msgs[0])
	}
	if msgs[1] != "low_stock_threshold (-1) is less than minimum allowed value (0)" {
		t.Fatalf("unexpected second message %q", msgs[1])
	}
}

func TestProductUpdateValidateAndApply(t *testing.T) {
	negative := -2
	blank := " "
	err := ProductUpdate{Name: &blank, StockQuantity: &negative}.Validate()
	if got := pkgerrors.JoinFieldMessages(err); got != "name is required, stock_quantity (-2) is less than minimum allowed value (0)" {
		t.Fatalf("unexpected messages %q", got)
	}

	name := "  Gadget "
	desc := " shiny "
	stock := 3
	p := &Product{Name: "Widget", StockQuantity: 10, LowStockThreshold: 5}
	update := ProductUpdate{Name: &name, Description: &desc, StockQuantity: &stock}
	if err := update.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	update.Apply(p)

	if p.Name != "Gadget" || p.Description != "shiny" {
		t.Fatalf("expected trimmed fields, got %q / %q", p.Name, p.Description)
	}
	if p.StockQuantity != 3 || p.LowStockThreshold != 5 {
		t.Fatalf("expected stock replaced and threshold kept, got %d / %d", p.StockQuantity, p.LowStockThreshold)
	}
}

func TestFilterMatches(t *testing.T) {
	low := Product{StockQuantity: 1, LowStockThreshold: 2}
	ok := Product{StockQuantity: 2, LowStockThreshold: 2}
	if !(Filter{}).Matches(ok) {
		t.Fatal("zero filter should match everything")
	}
	if !(Filter{LowStock: true}).Matches(low) || (Filter{LowStock: true}).Matches(ok) {
		t.Fatal("low stock filter mismatch")
	}
}

func TestCountersAboveMaximumAreRejected(t *testing.T) {
	over := MaxCounter + 1
	update := ProductUpdate{StockQuantity: &over, LowStockThreshold: &over}
	msgs := pkgerrors.FieldMessages(update.Validate())
	if len(msgs) != 2 {
		t.Fatalf("expected two field errors, got %v", msgs)
	}
	if msgs[0] != "stock_quantity (2147483648) is more than maximum allowed value (2147483647)" {
		t.Fatalf("unexpected message %q", msgs[0])
	}

	atLimit := MaxCounter
	if err := (ProductUpdate{StockQuantity: &atLimit}).Validate(); err != nil {
		t.Fatalf("limit itself should be accepted: %v", err)
	}
	if err := (Product{Name: "Big", StockQuantity: over}).Validate(); err == nil {
		t.Fatal("expected record above the limit to fail")
	}
}
