package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func newJournalInput(lines ...NewJournalTransaction) *NewJournal {
	return &NewJournal{
		BranchId:     1,
		JournalDate:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Transactions: lines,
	}
}

func TestReceiveJournalTransactions_Balanced(t *testing.T) {
	input := newJournalInput(
		NewJournalTransaction{AccountId: 1, Debit: decimal.NewFromInt(1500)},
		NewJournalTransaction{AccountId: 2, Credit: decimal.NewFromInt(1000)},
		NewJournalTransaction{AccountId: 3, Credit: decimal.NewFromInt(500)},
	)
	transactions, total, err := receiveJournalTransactions(input, 7)
	if err != nil {
		t.Fatalf("receiveJournalTransactions: %v", err)
	}
	if len(transactions) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(transactions))
	}
	if !total.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("expected total 1500, got %s", total.String())
	}
	for _, txn := range transactions {
		if txn.JournalId != 7 {
			t.Fatalf("expected journal id 7, got %d", txn.JournalId)
		}
	}
}

func TestReceiveJournalTransactions_Unbalanced(t *testing.T) {
	input := newJournalInput(
		NewJournalTransaction{AccountId: 1, Debit: decimal.NewFromInt(1000)},
		NewJournalTransaction{AccountId: 2, Credit: decimal.NewFromInt(900)},
	)
	if _, _, err := receiveJournalTransactions(input, 1); err == nil {
		t.Fatal("expected error for unbalanced journal")
	}
}

func TestReceiveJournalTransactions_LineWithBothSides(t *testing.T) {
	input := newJournalInput(
		NewJournalTransaction{AccountId: 1, Debit: decimal.NewFromInt(100), Credit: decimal.NewFromInt(100)},
		NewJournalTransaction{AccountId: 2},
	)
	if _, _, err := receiveJournalTransactions(input, 1); err == nil {
		t.Fatal("expected error for line carrying both debit and credit")
	}
}

func TestReceiveJournalTransactions_EmptyLine(t *testing.T) {
	input := newJournalInput(
		NewJournalTransaction{AccountId: 1},
		NewJournalTransaction{AccountId: 2},
	)
	if _, _, err := receiveJournalTransactions(input, 1); err == nil {
		t.Fatal("expected error for line with neither debit nor credit")
	}
}

func TestReceiveJournalTransactions_NegativeAmount(t *testing.T) {
	input := newJournalInput(
		NewJournalTransaction{AccountId: 1, Debit: decimal.NewFromInt(-100)},
		NewJournalTransaction{AccountId: 2, Credit: decimal.NewFromInt(-100)},
	)
	if _, _, err := receiveJournalTransactions(input, 1); err == nil {
		t.Fatal("expected error for negative amounts")
	}
}
