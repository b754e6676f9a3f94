package models

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func sampleReceiptData(status SaleStatus) receiptData {
	return receiptData{
		Sale: &SaleTransaction{
			SaleNumber:   "SL-1-000042",
			SaleDateTime: time.Date(2026, 3, 1, 14, 5, 0, 0, time.UTC),
			Status:       status,
			Subtotal:     decimal.NewFromInt(2000),
			Total:        decimal.NewFromInt(2000),
			PaidAmount:   decimal.NewFromInt(5000),
			ChangeAmount: decimal.NewFromInt(3000),
			Details: []SaleDetail{
				{Name: "Drinking Water 1L", Qty: decimal.NewFromInt(4),
					UnitPrice: decimal.NewFromInt(500), LineTotal: decimal.NewFromInt(2000)},
			},
		},
		BusinessName:    "Demo Store",
		BranchName:      "Downtown",
		CashierName:     "Counter Cashier",
		PaymentModeName: "Cash",
	}
}

func TestReceiptTemplate_Render(t *testing.T) {
	var sb strings.Builder
	if err := receiptTemplate.Execute(&sb, sampleReceiptData(SaleStatusCompleted)); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	html := sb.String()
	for _, want := range []string{"SL-1-000042", "Demo Store", "Downtown", "Drinking Water 1L", "Cash"} {
		if !strings.Contains(html, want) {
			t.Fatalf("receipt missing %q", want)
		}
	}
	if strings.Contains(html, "VOIDED") {
		t.Fatal("completed sale must not render the voided banner")
	}
}

func TestReceiptTemplate_VoidedBanner(t *testing.T) {
	var sb strings.Builder
	if err := receiptTemplate.Execute(&sb, sampleReceiptData(SaleStatusVoided)); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(sb.String(), "VOIDED") {
		t.Fatal("voided sale must render the voided banner")
	}
}

func TestNormalizeQty(t *testing.T) {
	whole := normalizeQty(decimal.RequireFromString("4.0000"))
	if whole.String() != "4" {
		t.Fatalf("expected whole qty to render as 4, got %s", whole.String())
	}
	fractional := normalizeQty(decimal.RequireFromString("0.2500"))
	if !fractional.Equal(decimal.RequireFromString("0.25")) {
		t.Fatalf("expected fractional qty preserved, got %s", fractional.String())
	}
}
