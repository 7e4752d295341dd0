package service

const (
	// Fixed program thresholds applied to the recommended value.
	RateTermLTV = 0.90
	CashOutLTV  = 0.80

	// PIWTolerancePercent is how far the internal estimate may sit from
	// the consensus before the inspection waiver is off the table.
	PIWTolerancePercent = 10.0

	// Priority tiers keyed off the effective APR.
	HighRateThreshold   = 15.0
	MediumRateThreshold = 8.0

	// BudgetEquityFactor converts accessible equity into a monthly
	// consolidation budget when the caller does not supply one.
	BudgetEquityFactor = 0.01

	MaxAccountsPerRequest = 50
	MaxPropertyValue      = 1_000_000_000.0

	AccountTypeMortgage = "mortgage"
)

// assumedRates backs accounts whose credit pull carried no APR.
// Keyed by account_type; anything unknown falls back to assumedRateOther.
var assumedRates = map[string]float64{
	"credit_card":   22.99,
	"store_card":    26.99,
	"personal_loan": 12.5,
	"heloc":         9.25,
	"auto_loan":     7.5,
	"student_loan":  6.0,
	"other":         11.0,
}

const assumedRateOther = 11.0

// revolvingTypes drive the qualitative credit-impact projection.
var revolvingTypes = map[string]bool{
	"credit_card": true,
	"store_card":  true,
	"heloc":       true,
}
