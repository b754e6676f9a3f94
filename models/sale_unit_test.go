package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestLoyaltyPoints(t *testing.T) {
	cases := []struct {
		total string
		want  int64
	}{
		{"0", 0},
		{"99.99", 0},
		{"100", 1},
		{"150", 1},
		{"199.99", 1},
		{"200", 2},
		{"250", 2},
		{"1000", 10},
	}
	for _, tc := range cases {
		total, err := decimal.NewFromString(tc.total)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.total, err)
		}
		got := loyaltyPoints(total)
		if !got.Equal(decimal.NewFromInt(tc.want)) {
			t.Fatalf("loyaltyPoints(%s) = %s, want %d", tc.total, got, tc.want)
		}
	}
}
