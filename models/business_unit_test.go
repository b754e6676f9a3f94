package models

import (
	"testing"
	"time"
)

func TestCheckTransactionLock(t *testing.T) {
	lockDate := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	if err := checkTransactionLock(nil, time.Now(), "sales"); err != nil {
		t.Fatalf("no lock date should allow any transaction, got %v", err)
	}

	var zero time.Time
	if err := checkTransactionLock(&zero, time.Now(), "sales"); err != nil {
		t.Fatalf("zero lock date should allow any transaction, got %v", err)
	}

	if err := checkTransactionLock(&lockDate, lockDate.Add(24*time.Hour), "sales"); err != nil {
		t.Fatalf("transaction after the lock date should pass, got %v", err)
	}
	if err := checkTransactionLock(&lockDate, lockDate, "sales"); err == nil {
		t.Fatal("transaction dated exactly on the lock date must be rejected")
	}
	if err := checkTransactionLock(&lockDate, lockDate.Add(-time.Hour), "purchase"); err == nil {
		t.Fatal("transaction before the lock date must be rejected")
	}
}
