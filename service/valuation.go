package service

import (
	"context"
	"fmt"
	"math"

	"mortgage-advisor/domain"
	"mortgage-advisor/logger"
)

// roundTo2Decimals rounds a currency amount to cents.
func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}

func roundTo1Decimal(value float64) float64 {
	return math.Round(value*10) / 10
}

// AggregateValuation folds the internal estimate and the validated external
// estimates into a consensus band. Pure function; arrival order of sources
// is preserved. An internal value of 0 means "no internal estimate".
func AggregateValuation(internalValue float64, externals []domain.ValueEstimate) (domain.ValuationConsensus, error) {
	sources := make([]domain.ValueEstimate, 0, len(externals)+1)
	if internalValue > 0 {
		sources = append(sources, domain.ValueEstimate{
			SourceType: domain.SourceInternal,
			Name:       "Internal AVM estimate",
			Value:      internalValue,
		})
	}
	for _, est := range externals {
		est.SourceType = domain.SourceExternal
		sources = append(sources, est)
	}

	if len(sources) == 0 {
		return domain.ValuationConsensus{}, domain.ErrNoValuationData
	}

	min, max, sum := sources[0].Value, sources[0].Value, 0.0
	for _, s := range sources {
		if s.Value < min {
			min = s.Value
		}
		if s.Value > max {
			max = s.Value
		}
		sum += s.Value
	}

	recommended := roundTo2Decimals(sum / float64(len(sources)))
	// Rounding must never push the recommendation outside the band.
	if recommended < min {
		recommended = min
	}
	if recommended > max {
		recommended = max
	}

	variance := 0.0
	if len(sources) > 1 {
		variance = roundTo1Decimal((max - min) / recommended * 100)
	}

	return domain.ValuationConsensus{
		Conservative:    min,
		Recommended:     recommended,
		Aggressive:      max,
		VariancePercent: variance,
		TotalSources:    len(sources),
		AllSources:      sources,
	}, nil
}

// ComputePIWFigures derives the loan-eligibility amounts from the
// recommended value. The waiver needs an internal baseline: without one
// the consensus cannot corroborate anything, so eligibility is false.
func ComputePIWFigures(internalValue float64, consensus domain.ValuationConsensus) domain.PIWFigures {
	figures := domain.PIWFigures{
		RateTermMax: roundTo2Decimals(consensus.Recommended * RateTermLTV),
		CashOutMax:  roundTo2Decimals(consensus.Recommended * CashOutLTV),
	}

	if internalValue > 0 && consensus.Recommended > 0 {
		deviation := math.Abs(internalValue-consensus.Recommended) / consensus.Recommended * 100
		figures.PIWEligible = deviation <= PIWTolerancePercent
	}

	return figures
}

// ValuationService runs the full AVM pipeline: model comparables, consensus
// aggregation, PIW figures, response assembly.
type ValuationService struct {
	ai  *AIService
	log logger.Logger
}

func NewValuationService(ai *AIService, log logger.Logger) *ValuationService {
	return &ValuationService{ai: ai, log: log}
}

// EvaluateProperty produces the assembled AVM document for a validated
// request. Model unavailability is tolerated whenever the internal value
// alone can carry the consensus.
func (s *ValuationService) EvaluateProperty(ctx context.Context, req domain.AVMRequest) (domain.AVMResponse, error) {
	if req.InternalValue > MaxPropertyValue {
		return domain.AVMResponse{}, fmt.Errorf("internal value exceeds the maximum of $%.2f", MaxPropertyValue)
	}

	narrative, notes, err := s.ai.GenerateValuationNarrative(ctx, req)
	if err != nil {
		s.log.Warn("model comparables unavailable, proceeding with internal value only", map[string]interface{}{
			"address": req.Address,
			"error":   err.Error(),
		})
		notes = append(notes, "external comparables unavailable: "+err.Error())
	}

	consensus, aggErr := AggregateValuation(req.InternalValue, narrative.ComparableEstimates)
	if aggErr != nil {
		if err != nil {
			// Nothing deterministic to fall back on either.
			return domain.AVMResponse{}, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, aggErr)
		}
		return domain.AVMResponse{}, aggErr
	}

	figures := ComputePIWFigures(req.InternalValue, consensus)

	return AssembleAVMResponse(consensus, figures, narrative, notes), nil
}
