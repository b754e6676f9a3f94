package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestStockHistoryBeforeSave_MovementSign(t *testing.T) {
	out := StockHistory{Qty: decimal.NewFromInt(-5), MovementType: StockMovementTypeIn}
	if err := out.BeforeSave(nil); err != nil {
		t.Fatalf("BeforeSave: %v", err)
	}
	if out.MovementType != StockMovementTypeOut {
		t.Fatalf("expected movement O for negative qty, got %q", out.MovementType)
	}

	in := StockHistory{Qty: decimal.NewFromInt(5), MovementType: StockMovementTypeOut}
	if err := in.BeforeSave(nil); err != nil {
		t.Fatalf("BeforeSave: %v", err)
	}
	if in.MovementType != StockMovementTypeIn {
		t.Fatalf("expected movement I for positive qty, got %q", in.MovementType)
	}
}

func TestStockHistoryBeforeSave_ZeroQtyUntouched(t *testing.T) {
	sh := StockHistory{MovementType: StockMovementTypeOut}
	if err := sh.BeforeSave(nil); err != nil {
		t.Fatalf("BeforeSave: %v", err)
	}
	if sh.MovementType != StockMovementTypeOut {
		t.Fatalf("expected zero qty to leave movement untouched, got %q", sh.MovementType)
	}
}
