package models

import (
	"testing"
)

func TestEncodeDecodeCursor(t *testing.T) {
	encoded := EncodeCursor("2026-03-01 10:30:00")
	cursor, err := DecodeCursor(&encoded)
	if err != nil {
		t.Fatalf("DecodeCursor: %v", err)
	}
	if cursor != "2026-03-01 10:30:00" {
		t.Fatalf("expected round trip, got %q", cursor)
	}
}

func TestDecodeCursor_Nil(t *testing.T) {
	cursor, err := DecodeCursor(nil)
	if err != nil {
		t.Fatalf("DecodeCursor(nil): %v", err)
	}
	if cursor != "" {
		t.Fatalf("expected empty cursor, got %q", cursor)
	}
}

func TestDecodeCursor_InvalidBase64(t *testing.T) {
	bad := "not base64!!"
	if _, err := DecodeCursor(&bad); err == nil {
		t.Fatal("expected error for invalid cursor")
	}
}

func TestEncodeDecodeCompositeCursor(t *testing.T) {
	encoded := EncodeCompositeCursor("2026-03-01 10:30:00", 42)
	cursorTime, id := DecodeCompositeCursor(&encoded)
	if cursorTime != "2026-03-01 10:30:00" {
		t.Fatalf("expected timestamp round trip, got %q", cursorTime)
	}
	if id != 42 {
		t.Fatalf("expected id 42, got %d", id)
	}
}
