package models

import (
	"testing"
	"time"
)

func TestConvertToPubSubMessage(t *testing.T) {
	when := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	record := PubSubMessageRecord{
		ID:                  12,
		BusinessId:          "biz-1",
		BranchId:            3,
		TransactionDateTime: when,
		ReferenceId:         44,
		ReferenceType:       AccountReferenceTypeSale,
		Action:              PubSubMessageActionCreate,
		NewObj:              []byte(`{"total":"100"}`),
		CorrelationId:       "cid-1",
	}

	m := ConvertToPubSubMessage(record)
	if m.ID != 12 || m.BusinessId != "biz-1" || m.BranchId != 3 {
		t.Fatalf("identity fields not carried over: %+v", m)
	}
	if m.ReferenceType != string(AccountReferenceTypeSale) {
		t.Fatalf("expected reference type SL, got %q", m.ReferenceType)
	}
	if m.ReferenceId != 44 || !m.TransactionDateTime.Equal(when) {
		t.Fatalf("reference fields not carried over: %+v", m)
	}
	if string(m.NewObj) != `{"total":"100"}` {
		t.Fatalf("payload not carried over: %s", m.NewObj)
	}
	if m.CorrelationId != "cid-1" {
		t.Fatalf("correlation id not carried over: %q", m.CorrelationId)
	}
}
