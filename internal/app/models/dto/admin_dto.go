package dto

// RejectRequest carries the optional reason attached to a rejection
type RejectRequest struct {
	Reason string `json:"reason"`
}

// DecisionResponse wraps the entity after an approval-state transition
type DecisionResponse struct {
	OK   bool        `json:"ok"`
	Data interface{} `json:"data"`
}
