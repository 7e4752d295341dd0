package service

import (
	"fmt"

	"mortgage-advisor/domain"
)

// AssembleAVMResponse merges the deterministic consensus with the model's
// narrative fields. Narrative passes through verbatim; every numeric field
// in the response comes from the consensus, never from the model.
func AssembleAVMResponse(consensus domain.ValuationConsensus, figures domain.PIWFigures, narrative domain.ValuationNarrative, notes []string) domain.AVMResponse {
	methodology := narrative.Methodology
	if methodology == "" {
		methodology = defaultMethodology
	}
	disclaimer := narrative.Disclaimer
	if disclaimer == "" {
		disclaimer = defaultDisclaimer
	}

	return domain.AVMResponse{
		ValueOptions: domain.ValueOptions{
			Conservative: consensus.Conservative,
			Aggressive:   consensus.Aggressive,
		},
		AUSRecommended: domain.AUSRecommended{
			Value: consensus.Recommended,
		},
		SourceComparison: domain.SourceComparison{
			VariancePercent: consensus.VariancePercent,
			TotalSources:    consensus.TotalSources,
			AllSources:      consensus.AllSources,
		},
		PIWCalculations: figures,
		Methodology:     methodology,
		Disclaimer:      disclaimer,
		Notes:           notes,
	}
}

// AssembleLiabilityResponse merges the deterministic assessment with the
// model's narrative. Dropped estimates and rejected fields land in
// assumptions so nothing is silently swallowed.
func AssembleLiabilityResponse(snapshot domain.BorrowerSnapshot, assessment domain.PayoffAssessment, impact domain.CreditImpact, benefits *domain.RefinanceBenefits, narrative domain.LiabilityNarrative, notes []string) domain.LiabilityResponse {
	observations := narrative.KeyObservations
	if len(observations) == 0 {
		observations = fallbackLiabilityNarrative(snapshot, assessment).KeyObservations
	}

	nextStep := narrative.RecommendedNextStep
	if nextStep == "" {
		nextStep = "Review the payoff plan with the borrower and confirm current balances and rates."
	}
	opener := narrative.ConversationOpener
	if opener == "" {
		opener = fmt.Sprintf("I took a look at your accounts and found a way to eliminate about $%.0f in monthly payments.", assessment.MonthlyPaymentsEliminated)
	}

	assumptions := append([]string{}, narrative.AssumptionsUsed...)
	for _, inc := range assessment.DebtsIncluded {
		if inc.RateAssumed {
			assumptions = append(assumptions, fmt.Sprintf("%s: no rate reported, assumed %.2f%% APR for its account type", inc.Creditor, inc.Rate))
		}
	}
	assumptions = append(assumptions, notes...)

	scoreImpact := &domain.CreditImpact{
		Direction: impact.Direction,
		Basis:     impact.Basis,
	}
	if narrative.CreditScoreNote != "" {
		// The model may color the basis, never the direction.
		scoreImpact.Basis = narrative.CreditScoreNote
	}

	return domain.LiabilityResponse{
		BorrowerSnapshot:    snapshot,
		KeyObservations:     observations,
		PayoffAssessment:    assessment,
		RefinanceBenefits:   benefits,
		AssumptionsUsed:     assumptions,
		CreditScoreImpact:   scoreImpact,
		RecommendedNextStep: nextStep,
		ConversationOpener:  opener,
	}
}
