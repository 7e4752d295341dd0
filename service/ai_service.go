package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"

	"mortgage-advisor/domain"
	"mortgage-advisor/logger"
	"mortgage-advisor/metrics"
	"mortgage-advisor/schema"
)

// ModelClient is the narrow boundary to the LLM: a structured prompt in, a
// candidate JSON document out. All retry policy lives on this side of it;
// the deterministic core never touches the network.
type ModelClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// OpenAIClient calls the chat-completions API.
type OpenAIClient struct {
	apiKey     string
	apiURL     string
	model      string
	httpClient *http.Client
}

type openAIRequest struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type openAIResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

func NewOpenAIClient(apiKey, apiURL, model string, timeout time.Duration) *OpenAIClient {
	return &OpenAIClient{
		apiKey: apiKey,
		apiURL: apiURL,
		model:  model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	reqBody := openAIRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:      800,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var out openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("no response from model")
	}
	return out.Choices[0].Message.Content, nil
}

// AIService produces the narrative documents. The model output is
// untrusted: it is schema-validated first, retried once with a corrective
// instruction when invalid, and fully replaced by deterministic fallbacks
// when the model is disabled or unavailable.
type AIService struct {
	client    ModelClient
	validator *schema.Validator
	log       logger.Logger
	enabled   bool
}

// NewAIService builds the service. A nil client disables model calls;
// every narrative then comes from the deterministic fallbacks.
func NewAIService(client ModelClient, validator *schema.Validator, log logger.Logger) *AIService {
	return &AIService{
		client:    client,
		validator: validator,
		log:       log,
		enabled:   client != nil,
	}
}

const correctiveInstruction = "\n\nYour previous answer was not valid against the required JSON shape. Respond again with ONLY the JSON object described above, no surrounding text."

// requestDocument calls the model and validates the returned document,
// retrying exactly once with a corrective instruction on an invalid
// document or transport failure.
func (s *AIService) requestDocument(ctx context.Context, system, user, docName string) (map[string]interface{}, error) {
	retryPolicy := retrypolicy.NewBuilder[map[string]interface{}]().
		WithMaxRetries(1).
		Build()

	doc, err := failsafe.With[map[string]interface{}](retryPolicy).
		GetWithExecution(func(exec failsafe.Execution[map[string]interface{}]) (map[string]interface{}, error) {
			prompt := user
			if exec.IsRetry() {
				prompt += correctiveInstruction
			}

			start := time.Now()
			raw, err := s.client.Complete(ctx, system, prompt)
			metrics.ModelLatency.Observe(time.Since(start).Seconds())
			if err != nil {
				metrics.ModelCalls.WithLabelValues("error").Inc()
				return nil, err
			}

			parsed, verrs := s.validator.Validate(docName, []byte(raw))
			if len(verrs) > 0 {
				metrics.ModelCalls.WithLabelValues("invalid").Inc()
				metrics.ValidationFailures.WithLabelValues(docName).Inc()
				return nil, fmt.Errorf("model document failed validation: %w", verrs)
			}

			metrics.ModelCalls.WithLabelValues("ok").Inc()
			return parsed, nil
		})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	return doc, nil
}

// GenerateValuationNarrative asks the model for comparable-sales estimates
// plus methodology text. Invalid estimate entries are dropped, never
// fabricated, and each drop is recorded in the returned notes.
func (s *AIService) GenerateValuationNarrative(ctx context.Context, req domain.AVMRequest) (domain.ValuationNarrative, []string, error) {
	if !s.enabled {
		return fallbackValuationNarrative(), []string{"model disabled; no external comparables requested"}, nil
	}

	doc, err := s.requestDocument(ctx, valuationSystemPrompt, buildValuationPrompt(req), schema.DocValuationNarrative)
	if err != nil {
		return fallbackValuationNarrative(), nil, err
	}

	narrative := domain.ValuationNarrative{
		Methodology: stringField(doc, "methodology"),
		Disclaimer:  stringField(doc, "disclaimer"),
	}

	var notes []string
	entries, _ := doc["comparable_estimates"].([]interface{})
	for i, entry := range entries {
		if verrs := s.validator.ValidateValue(schema.DocValueEstimate, entry); len(verrs) > 0 {
			notes = append(notes, fmt.Sprintf("dropped comparable estimate %d: %s", i+1, verrs.Error()))
			continue
		}
		m := entry.(map[string]interface{})
		narrative.ComparableEstimates = append(narrative.ComparableEstimates, domain.ValueEstimate{
			SourceType: domain.SourceExternal,
			Name:       stringField(m, "name"),
			Value:      numberField(m, "value"),
			Reasoning:  stringField(m, "reasoning"),
		})
	}

	if narrative.Methodology == "" {
		narrative.Methodology = defaultMethodology
	}
	if narrative.Disclaimer == "" {
		narrative.Disclaimer = defaultDisclaimer
	}
	return narrative, notes, nil
}

// GenerateLiabilityNarrative asks the model for the free-text fields of
// the consolidation document. Any numbers the model also emits are
// discarded here; only narrative fields pass through.
func (s *AIService) GenerateLiabilityNarrative(ctx context.Context, snapshot domain.BorrowerSnapshot, assessment domain.PayoffAssessment) (domain.LiabilityNarrative, []string, error) {
	if !s.enabled {
		return fallbackLiabilityNarrative(snapshot, assessment), []string{"model disabled; narrative generated from deterministic figures"}, nil
	}

	doc, err := s.requestDocument(ctx, liabilitySystemPrompt, buildLiabilityPrompt(snapshot, assessment), schema.DocLiabilityNarrative)
	if err != nil {
		return fallbackLiabilityNarrative(snapshot, assessment), nil, err
	}

	return domain.LiabilityNarrative{
		KeyObservations:     stringSliceField(doc, "key_observations"),
		AssumptionsUsed:     stringSliceField(doc, "assumptions_used"),
		RecommendedNextStep: stringField(doc, "recommended_next_step"),
		ConversationOpener:  stringField(doc, "conversation_opener"),
		CreditScoreNote:     stringField(doc, "credit_score_note"),
	}, nil, nil
}

const valuationSystemPrompt = "You are a residential valuation analyst supporting mortgage loan officers. " +
	"You estimate market values from comparable-sales reasoning. " +
	"You always answer with a single JSON object and nothing else."

const liabilitySystemPrompt = "You are a mortgage advisor preparing a loan officer for a borrower conversation about debt consolidation. " +
	"You write short, concrete, compliant observations. " +
	"You always answer with a single JSON object and nothing else."

func buildValuationPrompt(req domain.AVMRequest) string {
	return fmt.Sprintf(`Estimate the market value of this property from comparable sales reasoning.

PROPERTY:
- Address: %s, %s, %s %s
- Living area: %.0f sqft
- Bedrooms: %.0f, bathrooms: %.1f
- Year built: %d

Respond with a JSON object of this exact shape:
{
  "comparable_estimates": [
    {"name": "<source or approach name>", "value": <number>, "reasoning": "<one sentence>"}
  ],
  "methodology": "<2-3 sentences on how the estimates were formed>",
  "disclaimer": "<one sentence>"
}

Provide 2 to 4 estimates. Every value must be a positive number.`,
		req.Address, req.City, req.State, req.Zip,
		req.LivingArea, req.Bedrooms, req.Bathrooms, req.YearBuilt)
}

func buildLiabilityPrompt(snapshot domain.BorrowerSnapshot, assessment domain.PayoffAssessment) string {
	var debts strings.Builder
	for _, d := range assessment.DebtsIncluded {
		fmt.Fprintf(&debts, "- %s: balance $%.2f at %.2f%%, payment $%.2f/mo (%s priority)\n",
			d.Creditor, d.Balance, d.Rate, d.MonthlyPayment, d.Priority)
	}
	for _, d := range assessment.DebtsExcluded {
		fmt.Fprintf(&debts, "- %s: excluded (%s)\n", d.Creditor, d.Reason)
	}

	return fmt.Sprintf(`Write the narrative for this debt-consolidation assessment. Do not change any numbers; they are final.

BORROWER:
- Property value: $%.2f, total liens: $%.2f, estimated equity: $%.2f
- Consolidation budget: $%.2f/mo, non-mortgage payments today: $%.2f/mo

PLAN (%s):
%s- Total balance to pay off: $%.2f
- Monthly payments eliminated: $%.2f
- Budget remaining: $%.2f

Respond with a JSON object of this exact shape:
{
  "key_observations": ["<3-5 short observations>"],
  "assumptions_used": ["<assumptions behind the plan>"],
  "recommended_next_step": "<one sentence>",
  "conversation_opener": "<one friendly sentence a loan officer could open the call with>",
  "credit_score_note": "<one sentence, qualitative only>"
}`,
		snapshot.PropertyValue, snapshot.TotalLiens, snapshot.EstimatedEquity,
		snapshot.ConsolidationBudget, snapshot.TotalMonthlyNonMortgage,
		assessment.PlanType, debts.String(),
		assessment.TotalBalanceToPayoff, assessment.MonthlyPaymentsEliminated, assessment.BudgetRemaining)
}

const (
	defaultMethodology = "Consensus of the internal estimate and comparable-sales reasoning; the recommended value is the arithmetic mean of all usable sources."
	defaultDisclaimer  = "Estimates are for discussion purposes only and do not constitute an appraisal."
)

func fallbackValuationNarrative() domain.ValuationNarrative {
	return domain.ValuationNarrative{
		Methodology: defaultMethodology,
		Disclaimer:  defaultDisclaimer,
	}
}

func fallbackLiabilityNarrative(snapshot domain.BorrowerSnapshot, assessment domain.PayoffAssessment) domain.LiabilityNarrative {
	observations := []string{
		fmt.Sprintf("Estimated equity of $%.2f against a property value of $%.2f.", snapshot.EstimatedEquity, snapshot.PropertyValue),
		fmt.Sprintf("The plan retires %d account(s) totaling $%.2f.", len(assessment.DebtsIncluded), assessment.TotalBalanceToPayoff),
		fmt.Sprintf("Monthly payments of $%.2f are eliminated, leaving $%.2f of budget headroom.", assessment.MonthlyPaymentsEliminated, assessment.BudgetRemaining),
	}
	if len(assessment.DebtsExcluded) > 0 {
		observations = append(observations, fmt.Sprintf("%d account(s) could not be included in this plan.", len(assessment.DebtsExcluded)))
	}

	return domain.LiabilityNarrative{
		KeyObservations:     observations,
		AssumptionsUsed:     []string{"Figures are computed from the accounts as supplied; rates without documentation use program-assumed APRs."},
		RecommendedNextStep: "Review the payoff plan with the borrower and confirm current balances and rates.",
		ConversationOpener:  fmt.Sprintf("I took a look at your accounts and found a way to eliminate about $%.0f in monthly payments.", assessment.MonthlyPaymentsEliminated),
	}
}

func stringField(doc map[string]interface{}, key string) string {
	s, _ := doc[key].(string)
	return s
}

func numberField(doc map[string]interface{}, key string) float64 {
	f, _ := doc[key].(float64)
	return f
}

func stringSliceField(doc map[string]interface{}, key string) []string {
	raw, _ := doc[key].([]interface{})
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
