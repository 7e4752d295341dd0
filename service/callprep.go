package service

import (
	"context"
	"fmt"

	"mortgage-advisor/domain"
	"mortgage-advisor/logger"
)

// CallPrepService composes both sides of a lead into a loan-officer call
// briefing: valuation headroom plus the consolidation plan.
type CallPrepService struct {
	ai  *AIService
	log logger.Logger
}

func NewCallPrepService(ai *AIService, log logger.Logger) *CallPrepService {
	return &CallPrepService{ai: ai, log: log}
}

func (s *CallPrepService) Prepare(ctx context.Context, req domain.CallPrepRequest) (domain.CallPrepResponse, error) {
	if len(req.Accounts) > MaxAccountsPerRequest {
		return domain.CallPrepResponse{}, fmt.Errorf("account count exceeds the maximum of %d", MaxAccountsPerRequest)
	}

	budget := DeriveConsolidationBudget(req.Accounts, req.PropertyValue)
	assessment, _, err := AssessConsolidation(req.Accounts, budget)
	if err != nil {
		return domain.CallPrepResponse{}, err
	}
	snapshot := BuildBorrowerSnapshot(req.Accounts, req.PropertyValue, budget)

	var points []string
	if req.Address != "" {
		points = append(points, fmt.Sprintf("Subject property: %s.", req.Address))
	}
	points = append(points,
		fmt.Sprintf("Estimated equity: $%.2f on a $%.2f property.", snapshot.EstimatedEquity, snapshot.PropertyValue),
		fmt.Sprintf("Consolidation plan (%s): %d account(s), $%.2f in balances, $%.2f/mo in payments eliminated.",
			assessment.PlanType, len(assessment.DebtsIncluded), assessment.TotalBalanceToPayoff, assessment.MonthlyPaymentsEliminated),
	)

	highPriority := 0
	for _, inc := range assessment.DebtsIncluded {
		if inc.Priority == domain.PriorityHigh {
			highPriority++
		}
	}
	if highPriority > 0 {
		points = append(points, fmt.Sprintf("%d high-rate account(s) are first in line for payoff.", highPriority))
	}
	if len(assessment.DebtsExcluded) > 0 {
		points = append(points, fmt.Sprintf("%d account(s) fall outside the plan; be ready to explain why.", len(assessment.DebtsExcluded)))
	}

	if req.ProposedMortgageRate != nil {
		benefits := ComputeRefinanceBenefits(assessment, *req.ProposedMortgageRate)
		if benefits.MonthlyInterestSavings > 0 {
			points = append(points, fmt.Sprintf("Refinancing at %.2f%% saves roughly $%.2f/mo in interest on the consolidated balances.",
				*req.ProposedMortgageRate, benefits.MonthlyInterestSavings))
		}
	}

	// The internal estimate alone is a single-source consensus, enough
	// for the eligibility headline.
	if req.InternalValue > 0 {
		consensus, aggErr := AggregateValuation(req.InternalValue, nil)
		if aggErr == nil {
			figures := ComputePIWFigures(req.InternalValue, consensus)
			points = append(points, fmt.Sprintf("Program maximums: $%.2f rate/term, $%.2f cash-out.", figures.RateTermMax, figures.CashOutMax))
		}
	}

	narrative, notes, err := s.ai.GenerateLiabilityNarrative(ctx, snapshot, assessment)
	if err != nil {
		s.log.Warn("model narrative unavailable for call prep", map[string]interface{}{
			"error": err.Error(),
		})
		notes = append(notes, "model narrative unavailable: "+err.Error())
	}

	opener := narrative.ConversationOpener
	if opener == "" {
		opener = fallbackLiabilityNarrative(snapshot, assessment).ConversationOpener
	}
	nextStep := narrative.RecommendedNextStep
	if nextStep == "" {
		nextStep = "Walk the borrower through the payoff plan and confirm account details."
	}

	return domain.CallPrepResponse{
		BorrowerSnapshot:    snapshot,
		TalkingPoints:       points,
		ConversationOpener:  opener,
		RecommendedNextStep: nextStep,
		Notes:               notes,
	}, nil
}
