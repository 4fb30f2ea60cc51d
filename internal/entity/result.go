package entity

type Outcome string

const (
	OutcomeIgnoredWrongTopic Outcome = "ignored_wrong_topic"
	OutcomeInvalidPayload    Outcome = "invalid_payload"
	OutcomeNotPickup         Outcome = "not_pickup"
	OutcomeOrderNotSynced    Outcome = "order_not_synced"
	OutcomeNoShipments       Outcome = "no_shipments"
	OutcomeSuccess           Outcome = "success"
	OutcomePartialFailure    Outcome = "partial_failure"
	OutcomeError             Outcome = "error"
)

// Processed reports whether the delivery reached the reassignment loop.
func (o Outcome) Processed() bool {
	return o == OutcomeSuccess || o == OutcomePartialFailure
}

type ReassignmentResult struct {
	Outcome               Outcome
	Matched               bool
	LookupKey             string
	Note                  string
	ShipmentsTotal        int
	ShipmentsReassigned   int
	SkippedAlreadyCorrect int
	ShipmentsFailed       int
	Failures              []ShipmentFailure
}

type ShipmentFailure struct {
	ShipmentID string `json:"shipment_id"`
	Reason     string `json:"reason"`
}
