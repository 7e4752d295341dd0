package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mortgage-advisor/domain"
)

func TestAssembleAVMResponse(t *testing.T) {
	consensus := domain.ValuationConsensus{
		Conservative:    720000,
		Recommended:     760000,
		Aggressive:      810000,
		VariancePercent: 11.8,
		TotalSources:    3,
	}
	figures := domain.PIWFigures{RateTermMax: 684000, CashOutMax: 608000, PIWEligible: true}

	t.Run("narrative text passes through", func(t *testing.T) {
		narrative := domain.ValuationNarrative{
			Methodology: "Comparable sales within a half mile.",
			Disclaimer:  "Not an appraisal.",
		}

		resp := AssembleAVMResponse(consensus, figures, narrative, nil)

		assert.Equal(t, 720000.0, resp.ValueOptions.Conservative)
		assert.Equal(t, 810000.0, resp.ValueOptions.Aggressive)
		assert.Equal(t, 760000.0, resp.AUSRecommended.Value)
		assert.Equal(t, 11.8, resp.SourceComparison.VariancePercent)
		assert.Equal(t, figures, resp.PIWCalculations)
		assert.Equal(t, "Comparable sales within a half mile.", resp.Methodology)
		assert.Equal(t, "Not an appraisal.", resp.Disclaimer)
	})

	t.Run("empty narrative falls back to defaults", func(t *testing.T) {
		resp := AssembleAVMResponse(consensus, figures, domain.ValuationNarrative{}, nil)
		assert.NotEmpty(t, resp.Methodology)
		assert.NotEmpty(t, resp.Disclaimer)
	})

	t.Run("notes are carried verbatim", func(t *testing.T) {
		notes := []string{"dropped comparable estimate 2: value: Must be greater than 0"}
		resp := AssembleAVMResponse(consensus, figures, domain.ValuationNarrative{}, notes)
		assert.Equal(t, notes, resp.Notes)
	})
}

func TestAssembleLiabilityResponse(t *testing.T) {
	snapshot := domain.BorrowerSnapshot{
		PropertyValue:       500000,
		TotalLiens:          300000,
		EstimatedEquity:     200000,
		ConsolidationBudget: 1000,
	}
	assessment := domain.PayoffAssessment{
		PlanType: "full payoff",
		DebtsIncluded: []domain.DebtIncluded{
			{Creditor: "Visa", Balance: 5000, Rate: 22.99, RateAssumed: true, MonthlyPayment: 200, Priority: domain.PriorityHigh},
		},
		DebtsExcluded:             []domain.DebtExcluded{},
		TotalBalanceToPayoff:      5000,
		MonthlyPaymentsEliminated: 200,
		BudgetRemaining:           800,
		CanPayAll:                 true,
	}
	impact := domain.CreditImpact{Direction: "Unclear", Basis: "utilization is not reported for the revolving accounts being paid off"}

	t.Run("assumed rates become assumption entries", func(t *testing.T) {
		resp := AssembleLiabilityResponse(snapshot, assessment, impact, nil, domain.LiabilityNarrative{}, nil)

		require.NotEmpty(t, resp.AssumptionsUsed)
		assert.Contains(t, resp.AssumptionsUsed[0], "Visa")
		assert.Contains(t, resp.AssumptionsUsed[0], "22.99")
	})

	t.Run("empty narrative gets deterministic fallbacks", func(t *testing.T) {
		resp := AssembleLiabilityResponse(snapshot, assessment, impact, nil, domain.LiabilityNarrative{}, nil)

		assert.NotEmpty(t, resp.KeyObservations)
		assert.NotEmpty(t, resp.RecommendedNextStep)
		assert.NotEmpty(t, resp.ConversationOpener)
	})

	t.Run("model note colors the basis but never the direction", func(t *testing.T) {
		narrative := domain.LiabilityNarrative{
			CreditScoreNote: "Closing these cards may shorten average account age.",
		}
		resp := AssembleLiabilityResponse(snapshot, assessment, impact, nil, narrative, nil)

		require.NotNil(t, resp.CreditScoreImpact)
		assert.Equal(t, "Unclear", resp.CreditScoreImpact.Direction)
		assert.Equal(t, "Closing these cards may shorten average account age.", resp.CreditScoreImpact.Basis)
	})

	t.Run("narrative assumptions come before pipeline notes", func(t *testing.T) {
		narrative := domain.LiabilityNarrative{
			KeyObservations: []string{"Strong equity position."},
			AssumptionsUsed: []string{"Balances are current as of the credit pull."},
		}
		notes := []string{"model narrative unavailable: timeout"}

		resp := AssembleLiabilityResponse(snapshot, assessment, impact, nil, narrative, notes)

		assert.Equal(t, []string{"Strong equity position."}, resp.KeyObservations)
		require.Len(t, resp.AssumptionsUsed, 3)
		assert.Equal(t, "Balances are current as of the credit pull.", resp.AssumptionsUsed[0])
		assert.Equal(t, "model narrative unavailable: timeout", resp.AssumptionsUsed[2])
	})

	t.Run("benefits pointer is carried through", func(t *testing.T) {
		benefits := &domain.RefinanceBenefits{MonthlyInterestSavings: 125, MonthlyPaymentsEliminated: 200, AccountsClosed: 1}
		resp := AssembleLiabilityResponse(snapshot, assessment, impact, benefits, domain.LiabilityNarrative{}, nil)
		assert.Equal(t, benefits, resp.RefinanceBenefits)
	})
}
