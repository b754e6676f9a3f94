package realtime

import (
	"encoding/json"
	"time"
)

// Event names pushed to POS terminals and dashboards.
const (
	EventSaleCreated             = "sale.created"
	EventSaleVoided              = "sale.voided"
	EventStockChanged            = "stock.changed"
	EventStockAdjustmentReviewed = "stock_adjustment.reviewed"
	EventAttendanceClockIn       = "attendance.clock_in"
	EventAttendanceClockOut      = "attendance.clock_out"
	EventMessageCreated          = "message.created"
)

// Envelope is the wire format for every pushed event.
type Envelope struct {
	Event      string      `json:"event"`
	BusinessId string      `json:"business_id"`
	BranchId   int         `json:"branch_id"`
	Payload    interface{} `json:"payload"`
	OccurredAt time.Time   `json:"occurred_at"`
}

func NewEnvelope(event string, businessId string, branchId int, payload interface{}) Envelope {
	return Envelope{
		Event:      event,
		BusinessId: businessId,
		BranchId:   branchId,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
}

func (e Envelope) marshal() ([]byte, error) {
	return json.Marshal(e)
}
