package domain

// Priority ranks how urgently a debt should be consolidated.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// LiabilityAccount is one borrower liability as supplied by the caller.
// InterestRate, Utilization and CreditLimit may be absent from the credit
// pull, hence pointers.
type LiabilityAccount struct {
	Creditor     string   `json:"creditor"`
	AccountType  string   `json:"account_type"`
	Balance      float64  `json:"balance"`
	Payment      float64  `json:"payment"`
	InterestRate *float64 `json:"interest_rate,omitempty"`
	Utilization  *float64 `json:"utilization,omitempty"`
	CreditLimit  *float64 `json:"credit_limit,omitempty"`
}

// LiabilityRequest is the caller-supplied consolidation question.
// ConsolidationBudget is optional; when absent it is derived from equity.
type LiabilityRequest struct {
	Accounts             []LiabilityAccount `json:"accounts"`
	PropertyValue        float64            `json:"propertyValue"`
	ProposedMortgageRate *float64           `json:"proposedMortgageRate,omitempty"`
	ConsolidationBudget  *float64           `json:"consolidationBudget,omitempty"`
}

// DebtIncluded is an account selected for payoff within budget.
type DebtIncluded struct {
	Creditor       string   `json:"creditor"`
	Balance        float64  `json:"balance"`
	Rate           float64  `json:"rate"`
	RateAssumed    bool     `json:"rate_assumed"`
	MonthlyPayment float64  `json:"monthly_payment"`
	Priority       Priority `json:"priority"`
}

// DebtExcluded is an account left out, with the reason why.
type DebtExcluded struct {
	Creditor string `json:"creditor"`
	Reason   string `json:"reason"`
}

// PayoffAssessment is the deterministic consolidation result.
// Invariants: TotalBalanceToPayoff and MonthlyPaymentsEliminated are exact
// sums over DebtsIncluded, and BudgetRemaining >= 0 always.
type PayoffAssessment struct {
	CanPayAll                 bool           `json:"can_pay_all"`
	PlanType                  string         `json:"plan_type"`
	DebtsIncluded             []DebtIncluded `json:"debts_included"`
	DebtsExcluded             []DebtExcluded `json:"debts_excluded"`
	TotalBalanceToPayoff      float64        `json:"total_balance_to_payoff"`
	MonthlyPaymentsEliminated float64        `json:"monthly_payments_eliminated"`
	BudgetRemaining           float64        `json:"budget_remaining"`
}

// BorrowerSnapshot is derived once per request and never mutated.
type BorrowerSnapshot struct {
	PropertyValue           float64 `json:"property_value"`
	TotalLiens              float64 `json:"total_liens"`
	EstimatedEquity         float64 `json:"estimated_equity"`
	ConsolidationBudget     float64 `json:"consolidation_budget"`
	TotalMonthlyNonMortgage float64 `json:"total_monthly_non_mortgage"`
}

// CreditImpact is a qualitative projection, never numeric.
type CreditImpact struct {
	Direction string `json:"direction"` // "Likely positive", "Neutral", "Unclear"
	Basis     string `json:"basis"`
}

// RefinanceBenefits quantifies the rate differential of rolling the
// included balances into a mortgage at the proposed rate.
type RefinanceBenefits struct {
	MonthlyInterestSavings    float64 `json:"monthly_interest_savings"`
	MonthlyPaymentsEliminated float64 `json:"monthly_payments_eliminated"`
	AccountsClosed            int     `json:"accounts_closed"`
}

// LiabilityResponse is the assembled consolidation document.
type LiabilityResponse struct {
	BorrowerSnapshot    BorrowerSnapshot   `json:"borrower_snapshot"`
	KeyObservations     []string           `json:"key_observations"`
	PayoffAssessment    PayoffAssessment   `json:"payoff_assessment"`
	RefinanceBenefits   *RefinanceBenefits `json:"refinance_benefits,omitempty"`
	AssumptionsUsed     []string           `json:"assumptions_used"`
	CreditScoreImpact   *CreditImpact      `json:"credit_score_impact,omitempty"`
	RecommendedNextStep string             `json:"recommended_next_step"`
	ConversationOpener  string             `json:"conversation_opener"`
}

// CallPrepRequest combines both sides of the lead for a call briefing.
type CallPrepRequest struct {
	Address              string             `json:"address,omitempty"`
	PropertyValue        float64            `json:"propertyValue"`
	InternalValue        float64            `json:"internalValue,omitempty"`
	Accounts             []LiabilityAccount `json:"accounts"`
	ProposedMortgageRate *float64           `json:"proposedMortgageRate,omitempty"`
}

// CallPrepResponse is the loan-officer briefing document.
type CallPrepResponse struct {
	BorrowerSnapshot    BorrowerSnapshot `json:"borrower_snapshot"`
	TalkingPoints       []string         `json:"talking_points"`
	ConversationOpener  string           `json:"conversation_opener"`
	RecommendedNextStep string           `json:"recommended_next_step"`
	Notes               []string         `json:"notes,omitempty"`
}
