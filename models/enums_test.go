package models

import (
	"encoding/json"
	"testing"
)

func TestAdjustmentTypeUnmarshalJSON(t *testing.T) {
	cases := []struct {
		in       string
		expected AdjustmentType
		wantErr  bool
	}{
		{`"Increase"`, AdjustmentTypeIncrease, false},
		{`"Decrease"`, AdjustmentTypeDecrease, false},
		{`"increase"`, "", true},
		{`"Shrink"`, "", true},
		{`5`, "", true},
	}
	for _, tc := range cases {
		var got AdjustmentType
		err := json.Unmarshal([]byte(tc.in), &got)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("Unmarshal(%s) expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Unmarshal(%s) error: %v", tc.in, err)
		}
		if got != tc.expected {
			t.Fatalf("Unmarshal(%s) expected %q, got %q", tc.in, tc.expected, got)
		}
	}
}

func TestUserRoleUnmarshalJSON(t *testing.T) {
	cases := []struct {
		in       string
		expected UserRole
		wantErr  bool
	}{
		{`"A"`, UserRoleAdmin, false},
		{`"M"`, UserRoleManager, false},
		{`"C"`, UserRoleCashier, false},
		{`"X"`, "", true},
	}
	for _, tc := range cases {
		var got UserRole
		err := json.Unmarshal([]byte(tc.in), &got)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("Unmarshal(%s) expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Unmarshal(%s) error: %v", tc.in, err)
		}
		if got != tc.expected {
			t.Fatalf("Unmarshal(%s) expected %q, got %q", tc.in, tc.expected, got)
		}
	}
}

func TestPrecisionPlaces(t *testing.T) {
	cases := []struct {
		precision Precision
		expected  int32
	}{
		{PrecisionZero, 0},
		{PrecisionOne, 1},
		{PrecisionTwo, 2},
		{PrecisionThree, 3},
		{PrecisionFour, 4},
	}
	for _, tc := range cases {
		if got := tc.precision.Places(); got != tc.expected {
			t.Fatalf("Places(%q) expected %d, got %d", tc.precision, tc.expected, got)
		}
	}
}
