package entity

import "time"

// OutcomeEvent describes one processed pickup delivery. It is informational:
// nothing consumes it to retry work.
type OutcomeEvent struct {
	EventID               string            `json:"event_id"`
	RequestID             string            `json:"request_id,omitempty"`
	OrderID               string            `json:"order_id"`
	OrderName             string            `json:"order_name"`
	LookupKey             string            `json:"lookup_key"`
	Outcome               Outcome           `json:"outcome"`
	ShipmentsTotal        int               `json:"shipments_total"`
	ShipmentsReassigned   int               `json:"shipments_reassigned"`
	SkippedAlreadyCorrect int               `json:"skipped_already_correct"`
	ShipmentsFailed       int               `json:"shipments_failed"`
	Failures              []ShipmentFailure `json:"failures,omitempty"`
	Error                 string            `json:"error,omitempty"`
	ProcessedAt           time.Time         `json:"processed_at"`
}
