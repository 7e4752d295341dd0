package schema

// Document names for Validator.Validate.
const (
	DocAVMRequest         = "avm_request"
	DocLiabilityRequest   = "liability_request"
	DocCallPrepRequest    = "call_prep_request"
	DocValuationNarrative = "valuation_narrative"
	DocLiabilityNarrative = "liability_narrative"
	DocValueEstimate      = "value_estimate"
)

const accountProperties = `{
	"creditor":      {"type": "string", "minLength": 1},
	"account_type":  {"type": "string", "enum": ["credit_card", "store_card", "personal_loan", "heloc", "auto_loan", "student_loan", "mortgage", "other"]},
	"balance":       {"type": "number", "minimum": 0},
	"payment":       {"type": "number", "minimum": 0},
	"interest_rate": {"type": "number", "minimum": 0, "maximum": 100},
	"utilization":   {"type": "number", "minimum": 0, "maximum": 200},
	"credit_limit":  {"type": "number", "minimum": 0}
}`

var documentSchemas = map[string]string{
	DocAVMRequest: `{
		"type": "object",
		"required": ["address", "city", "state", "zip", "livingArea", "bedrooms", "bathrooms", "yearBuilt", "internalValue"],
		"properties": {
			"address":       {"type": "string", "minLength": 1},
			"city":          {"type": "string", "minLength": 1},
			"state":         {"type": "string", "minLength": 2, "maxLength": 2},
			"zip":           {"type": "string", "minLength": 5},
			"livingArea":    {"type": "number", "minimum": 0},
			"bedrooms":      {"type": "number", "minimum": 0},
			"bathrooms":     {"type": "number", "minimum": 0},
			"yearBuilt":     {"type": "integer", "minimum": 1800, "maximum": 2100},
			"internalValue": {"type": "number", "minimum": 0}
		}
	}`,

	DocLiabilityRequest: `{
		"type": "object",
		"required": ["accounts", "propertyValue"],
		"properties": {
			"accounts": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["creditor", "account_type", "balance", "payment"],
					"properties": ` + accountProperties + `
				}
			},
			"propertyValue":        {"type": "number", "minimum": 0, "exclusiveMinimum": true},
			"proposedMortgageRate": {"type": "number", "minimum": 0, "maximum": 100},
			"consolidationBudget":  {"type": "number"}
		}
	}`,

	DocCallPrepRequest: `{
		"type": "object",
		"required": ["accounts", "propertyValue"],
		"properties": {
			"address": {"type": "string"},
			"accounts": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["creditor", "account_type", "balance", "payment"],
					"properties": ` + accountProperties + `
				}
			},
			"propertyValue":        {"type": "number", "minimum": 0, "exclusiveMinimum": true},
			"internalValue":        {"type": "number", "minimum": 0},
			"proposedMortgageRate": {"type": "number", "minimum": 0, "maximum": 100}
		}
	}`,

	DocValuationNarrative: `{
		"type": "object",
		"required": ["comparable_estimates"],
		"properties": {
			"comparable_estimates": {"type": "array", "items": {"type": "object"}},
			"methodology":          {"type": "string"},
			"disclaimer":           {"type": "string"}
		}
	}`,

	DocValueEstimate: `{
		"type": "object",
		"required": ["name", "value"],
		"properties": {
			"name":      {"type": "string", "minLength": 1},
			"value":     {"type": "number", "minimum": 0, "exclusiveMinimum": true},
			"reasoning": {"type": "string"}
		}
	}`,

	DocLiabilityNarrative: `{
		"type": "object",
		"required": ["key_observations", "recommended_next_step", "conversation_opener"],
		"properties": {
			"key_observations":      {"type": "array", "items": {"type": "string"}},
			"assumptions_used":      {"type": "array", "items": {"type": "string"}},
			"recommended_next_step": {"type": "string", "minLength": 1},
			"conversation_opener":   {"type": "string", "minLength": 1},
			"credit_score_note":     {"type": "string"}
		}
	}`,
}
