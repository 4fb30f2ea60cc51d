package httpt

import "github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/internal/entity"

type ErrorResponse struct {
	Error string `json:"error"`
}

// ReassignmentResponse is the body of every webhook answer. The upstream
// platform only looks at the status code; operators read the rest.
type ReassignmentResponse struct {
	Status                string                   `json:"status"`
	Processed             bool                     `json:"processed"`
	Message               string                   `json:"message,omitempty"`
	Matched               bool                     `json:"matched"`
	LookupKey             string                   `json:"lookup_key,omitempty"`
	ShipmentsTotal        int                      `json:"shipments_total"`
	ShipmentsReassigned   int                      `json:"shipments_reassigned"`
	SkippedAlreadyCorrect int                      `json:"skipped_already_correct"`
	ShipmentsFailed       int                      `json:"shipments_failed"`
	Failures              []entity.ShipmentFailure `json:"failures,omitempty"`
	Error                 string                   `json:"error,omitempty"`
}

var outcomeMessages = map[entity.Outcome]string{
	entity.OutcomeIgnoredWrongTopic: "ignored: unexpected webhook topic",
	entity.OutcomeInvalidPayload:    "ignored: order payload is missing required fields",
	entity.OutcomeNotPickup:         "not a pickup order",
	entity.OutcomeOrderNotSynced:    "order not synced to fulfillment system yet; may sync later",
	entity.OutcomeNoShipments:       "order has no shipments yet; may sync later",
	entity.OutcomeSuccess:           "shipments reassigned to pickup warehouse",
	entity.OutcomePartialFailure:    "some shipments could not be reassigned",
	entity.OutcomeError:             "processing failed",
}

func newOutcomeResponse(outcome entity.Outcome, message string) ReassignmentResponse {
	if message == "" {
		message = outcomeMessages[outcome]
	}
	return ReassignmentResponse{
		Status:    string(outcome),
		Processed: outcome.Processed(),
		Message:   message,
	}
}

func newResultResponse(result *entity.ReassignmentResult) ReassignmentResponse {
	resp := newOutcomeResponse(result.Outcome, result.Note)
	resp.Matched = result.Matched
	resp.LookupKey = result.LookupKey
	resp.ShipmentsTotal = result.ShipmentsTotal
	resp.ShipmentsReassigned = result.ShipmentsReassigned
	resp.SkippedAlreadyCorrect = result.SkippedAlreadyCorrect
	resp.ShipmentsFailed = result.ShipmentsFailed
	resp.Failures = result.Failures
	return resp
}

func newErrorResponse(err error) ReassignmentResponse {
	resp := newOutcomeResponse(entity.OutcomeError, "")
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}
