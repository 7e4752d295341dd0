package service

import (
	"context"
	"fmt"
	"sort"

	"mortgage-advisor/domain"
	"mortgage-advisor/logger"
)

// effectiveRate resolves the APR for an account, assuming one from the
// account type when the credit pull carried none.
func effectiveRate(acc domain.LiabilityAccount) (rate float64, assumed bool) {
	if acc.InterestRate != nil {
		return *acc.InterestRate, false
	}
	if r, ok := assumedRates[acc.AccountType]; ok {
		return r, true
	}
	return assumedRateOther, true
}

// prioritize ranks an account by its effective APR.
func prioritize(rate float64) domain.Priority {
	switch {
	case rate >= HighRateThreshold:
		return domain.PriorityHigh
	case rate >= MediumRateThreshold:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}

var priorityRank = map[domain.Priority]int{
	domain.PriorityHigh:   0,
	domain.PriorityMedium: 1,
	domain.PriorityLow:    2,
}

// rankedAccount pairs an input account with its resolved rate and tier so
// the selection pass can keep referring back to the original.
type rankedAccount struct {
	account     domain.LiabilityAccount
	rate        float64
	rateAssumed bool
	priority    domain.Priority
}

// AssessConsolidation partitions the accounts into payable-within-budget
// and excluded, and computes the payoff economics. Every input account
// lands in exactly one side of the partition. The second return value is
// the source account behind each DebtsIncluded entry, in the same order;
// creditor names are not unique, so callers must not join on them.
// Pure function.
func AssessConsolidation(accounts []domain.LiabilityAccount, budget float64) (domain.PayoffAssessment, []domain.LiabilityAccount, error) {
	if budget < 0 {
		return domain.PayoffAssessment{}, nil, domain.ErrInvalidBudget
	}

	assessment := domain.PayoffAssessment{
		DebtsIncluded:   []domain.DebtIncluded{},
		DebtsExcluded:   []domain.DebtExcluded{},
		BudgetRemaining: roundTo2Decimals(budget),
	}

	ranked := make([]rankedAccount, 0, len(accounts))
	for _, acc := range accounts {
		// A lien on the subject property is retired by the refinance
		// itself, never consolidated on top of it.
		if acc.AccountType == AccountTypeMortgage {
			assessment.DebtsExcluded = append(assessment.DebtsExcluded, domain.DebtExcluded{
				Creditor: acc.Creditor,
				Reason:   "already secured by the subject property",
			})
			continue
		}

		rate, assumed := effectiveRate(acc)
		ranked = append(ranked, rankedAccount{
			account:     acc,
			rate:        rate,
			rateAssumed: assumed,
			priority:    prioritize(rate),
		})
	}

	// High first, then the payments that free the most monthly cash flow.
	// Stable sort keeps arrival order for full ties.
	sort.SliceStable(ranked, func(i, j int) bool {
		if priorityRank[ranked[i].priority] != priorityRank[ranked[j].priority] {
			return priorityRank[ranked[i].priority] < priorityRank[ranked[j].priority]
		}
		if ranked[i].account.Payment != ranked[j].account.Payment {
			return ranked[i].account.Payment > ranked[j].account.Payment
		}
		return ranked[i].account.Balance > ranked[j].account.Balance
	})

	var (
		usedBudget   float64
		totalBalance float64
		overBudget   bool
		included     []domain.LiabilityAccount
	)
	for _, ra := range ranked {
		if overBudget || usedBudget+ra.account.Payment > budget+budgetEpsilon {
			overBudget = true
			assessment.DebtsExcluded = append(assessment.DebtsExcluded, domain.DebtExcluded{
				Creditor: ra.account.Creditor,
				Reason:   "exceeds consolidation budget",
			})
			continue
		}

		usedBudget += ra.account.Payment
		totalBalance += ra.account.Balance
		included = append(included, ra.account)
		assessment.DebtsIncluded = append(assessment.DebtsIncluded, domain.DebtIncluded{
			Creditor:       ra.account.Creditor,
			Balance:        ra.account.Balance,
			Rate:           ra.rate,
			RateAssumed:    ra.rateAssumed,
			MonthlyPayment: ra.account.Payment,
			Priority:       ra.priority,
		})
	}

	assessment.TotalBalanceToPayoff = roundTo2Decimals(totalBalance)
	assessment.MonthlyPaymentsEliminated = roundTo2Decimals(usedBudget)
	remaining := roundTo2Decimals(budget - usedBudget)
	if remaining < 0 {
		remaining = 0
	}
	assessment.BudgetRemaining = remaining
	// A mortgage exclusion does not count against the plan; only
	// consolidatable accounts do.
	assessment.CanPayAll = len(assessment.DebtsIncluded) == len(ranked)
	assessment.PlanType = planType(len(assessment.DebtsIncluded), len(ranked))

	return assessment, included, nil
}

// budgetEpsilon absorbs float noise when summing currency payments against
// the budget; it must stay far below one cent.
const budgetEpsilon = 1e-9

func planType(included, total int) string {
	switch {
	case total == 0 || included == 0:
		return "no consolidation"
	case included == total:
		return "full payoff"
	case included*3 >= total*2:
		return "majority payoff"
	default:
		return "partial payoff"
	}
}

// BuildBorrowerSnapshot derives the request-scoped borrower figures once.
func BuildBorrowerSnapshot(accounts []domain.LiabilityAccount, propertyValue, budget float64) domain.BorrowerSnapshot {
	var liens, nonMortgage float64
	for _, acc := range accounts {
		if acc.AccountType == AccountTypeMortgage {
			liens += acc.Balance
		} else {
			nonMortgage += acc.Payment
		}
	}
	return domain.BorrowerSnapshot{
		PropertyValue:           roundTo2Decimals(propertyValue),
		TotalLiens:              roundTo2Decimals(liens),
		EstimatedEquity:         roundTo2Decimals(propertyValue - liens),
		ConsolidationBudget:     roundTo2Decimals(budget),
		TotalMonthlyNonMortgage: roundTo2Decimals(nonMortgage),
	}
}

// DeriveConsolidationBudget applies the program rule when the caller does
// not supply an explicit budget: a monthly share of the equity accessible
// under the cash-out LTV cap.
func DeriveConsolidationBudget(accounts []domain.LiabilityAccount, propertyValue float64) float64 {
	var liens float64
	for _, acc := range accounts {
		if acc.AccountType == AccountTypeMortgage {
			liens += acc.Balance
		}
	}
	accessible := propertyValue*CashOutLTV - liens
	if accessible < 0 {
		accessible = 0
	}
	return roundTo2Decimals(accessible * BudgetEquityFactor)
}

// ProjectCreditImpact is a qualitative, rule-driven projection over the
// accounts selected for payoff. Never numeric. Takes the source accounts
// themselves rather than the assessment entries because creditor names do
// not identify accounts uniquely.
func ProjectCreditImpact(included []domain.LiabilityAccount) domain.CreditImpact {
	revolvingIncluded := 0
	highUtilization := false
	utilizationKnown := false
	for _, acc := range included {
		if !revolvingTypes[acc.AccountType] {
			continue
		}
		revolvingIncluded++
		if acc.Utilization != nil {
			utilizationKnown = true
			if *acc.Utilization >= 30 {
				highUtilization = true
			}
		}
	}

	switch {
	case revolvingIncluded > 0 && highUtilization:
		return domain.CreditImpact{
			Direction: "Likely positive",
			Basis:     "paying off high-utilization revolving accounts lowers overall utilization",
		}
	case revolvingIncluded > 0 && !utilizationKnown:
		return domain.CreditImpact{
			Direction: "Unclear",
			Basis:     "utilization is not reported for the revolving accounts being paid off",
		}
	default:
		return domain.CreditImpact{
			Direction: "Neutral",
			Basis:     "the plan does not retire high-utilization revolving balances",
		}
	}
}

// ComputeRefinanceBenefits quantifies the monthly interest differential of
// rolling the included balances down to the proposed mortgage rate.
func ComputeRefinanceBenefits(assessment domain.PayoffAssessment, proposedRate float64) *domain.RefinanceBenefits {
	var savings float64
	for _, inc := range assessment.DebtsIncluded {
		if inc.Rate > proposedRate {
			savings += inc.Balance * (inc.Rate - proposedRate) / 100 / 12
		}
	}
	return &domain.RefinanceBenefits{
		MonthlyInterestSavings:    roundTo2Decimals(savings),
		MonthlyPaymentsEliminated: assessment.MonthlyPaymentsEliminated,
		AccountsClosed:            len(assessment.DebtsIncluded),
	}
}

// LiabilityService runs the full consolidation pipeline for a validated
// request: snapshot, assessment, credit impact, narrative, assembly.
type LiabilityService struct {
	ai  *AIService
	log logger.Logger
}

func NewLiabilityService(ai *AIService, log logger.Logger) *LiabilityService {
	return &LiabilityService{ai: ai, log: log}
}

func (s *LiabilityService) AssessLiabilities(ctx context.Context, req domain.LiabilityRequest) (domain.LiabilityResponse, error) {
	if len(req.Accounts) > MaxAccountsPerRequest {
		return domain.LiabilityResponse{}, fmt.Errorf("account count exceeds the maximum of %d", MaxAccountsPerRequest)
	}

	budget := 0.0
	if req.ConsolidationBudget != nil {
		budget = *req.ConsolidationBudget
	} else {
		budget = DeriveConsolidationBudget(req.Accounts, req.PropertyValue)
	}

	assessment, included, err := AssessConsolidation(req.Accounts, budget)
	if err != nil {
		return domain.LiabilityResponse{}, err
	}

	snapshot := BuildBorrowerSnapshot(req.Accounts, req.PropertyValue, budget)
	impact := ProjectCreditImpact(included)

	var benefits *domain.RefinanceBenefits
	if req.ProposedMortgageRate != nil {
		benefits = ComputeRefinanceBenefits(assessment, *req.ProposedMortgageRate)
	}

	narrative, notes, err := s.ai.GenerateLiabilityNarrative(ctx, snapshot, assessment)
	if err != nil {
		s.log.Warn("model narrative unavailable, returning deterministic assessment only", map[string]interface{}{
			"accounts": len(req.Accounts),
			"error":    err.Error(),
		})
		notes = append(notes, "model narrative unavailable: "+err.Error())
	}

	return AssembleLiabilityResponse(snapshot, assessment, impact, benefits, narrative, notes), nil
}
