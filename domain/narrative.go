package domain

// ValuationNarrative is the validated portion of the model's AVM document.
// ComparableEstimates arrive un-trusted; entries that fail validation are
// dropped before they reach the aggregator.
type ValuationNarrative struct {
	ComparableEstimates []ValueEstimate `json:"comparable_estimates"`
	Methodology         string          `json:"methodology"`
	Disclaimer          string          `json:"disclaimer"`
}

// LiabilityNarrative is the validated free-text portion of the model's
// consolidation document. Numbers the model emits alongside these fields
// are discarded; deterministic values are authoritative.
type LiabilityNarrative struct {
	KeyObservations     []string `json:"key_observations"`
	AssumptionsUsed     []string `json:"assumptions_used"`
	RecommendedNextStep string   `json:"recommended_next_step"`
	ConversationOpener  string   `json:"conversation_opener"`
	CreditScoreNote     string   `json:"credit_score_note,omitempty"`
}
