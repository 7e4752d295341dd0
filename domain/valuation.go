package domain

// SourceType tags where a value estimate came from.
type SourceType string

const (
	SourceInternal SourceType = "internal"
	SourceExternal SourceType = "external"
)

// AVMRequest is the caller-supplied subject property.
type AVMRequest struct {
	Address       string  `json:"address"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	Zip           string  `json:"zip"`
	LivingArea    float64 `json:"livingArea"`
	Bedrooms      float64 `json:"bedrooms"`
	Bathrooms     float64 `json:"bathrooms"`
	YearBuilt     int     `json:"yearBuilt"`
	InternalValue float64 `json:"internalValue"` // 0 means "no internal estimate"
}

// ValueEstimate is one opinion of value. Immutable once produced.
type ValueEstimate struct {
	SourceType SourceType `json:"source_type"`
	Name       string     `json:"name"`
	Value      float64    `json:"value"`
	Reasoning  string     `json:"reasoning,omitempty"`
}

// ValuationConsensus blends all estimates into a value band.
// Invariant: Conservative <= Recommended <= Aggressive.
type ValuationConsensus struct {
	Conservative    float64         `json:"conservative"`
	Recommended     float64         `json:"recommended"`
	Aggressive      float64         `json:"aggressive"`
	VariancePercent float64         `json:"variance_percent"`
	TotalSources    int             `json:"total_sources"`
	AllSources      []ValueEstimate `json:"all_sources"`
}

// PIWFigures are the loan-eligibility amounts derived from the
// recommended value.
type PIWFigures struct {
	RateTermMax float64 `json:"rate_term_max"`
	CashOutMax  float64 `json:"cash_out_max"`
	PIWEligible bool    `json:"piw_eligible"`
}

// AVMResponse is the assembled valuation document returned to the caller.
type AVMResponse struct {
	ValueOptions     ValueOptions     `json:"value_options"`
	AUSRecommended   AUSRecommended   `json:"aus_recommended"`
	SourceComparison SourceComparison `json:"source_comparison"`
	PIWCalculations  PIWFigures       `json:"piw_calculations"`
	Methodology      string           `json:"methodology"`
	Disclaimer       string           `json:"disclaimer"`
	Notes            []string         `json:"notes,omitempty"`
}

type ValueOptions struct {
	Conservative float64 `json:"conservative"`
	Aggressive   float64 `json:"aggressive"`
}

type AUSRecommended struct {
	Value float64 `json:"value"`
}

type SourceComparison struct {
	VariancePercent float64         `json:"variance_percent"`
	TotalSources    int             `json:"total_sources"`
	AllSources      []ValueEstimate `json:"all_sources"`
}
