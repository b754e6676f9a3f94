package utils

import (
	"context"
	"testing"
)

func TestBusinessLockRequiresRedis(t *testing.T) {
	lock, err := BusinessLock(context.Background(), "biz-1", "stockLock", "helper_test.go", "TestBusinessLockRequiresRedis")
	if err == nil {
		t.Fatal("expected an error while the redis lock client is not initialized")
	}
	if lock != nil {
		t.Fatal("expected no lock to be returned on failure")
	}
}

func TestValidatePhoneNumber(t *testing.T) {
	if err := ValidatePhoneNumber("+12024561111", "US"); err != nil {
		t.Fatalf("expected valid number, got %v", err)
	}
	if err := ValidatePhoneNumber("12345", CountryCode); err == nil {
		t.Fatal("expected error for a short number")
	}
	if err := ValidatePhoneNumber("not-a-number", CountryCode); err == nil {
		t.Fatal("expected error for a non-numeric value")
	}
}
