package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mortgage-advisor/domain"
	"mortgage-advisor/logger"
	"mortgage-advisor/schema"
)

func TestAggregateValuation(t *testing.T) {
	t.Run("internal plus two externals", func(t *testing.T) {
		externals := []domain.ValueEstimate{
			{Name: "County comps", Value: 720000},
			{Name: "Neighborhood trend", Value: 810000},
		}

		consensus, err := AggregateValuation(750000, externals)
		require.NoError(t, err)

		assert.Equal(t, 720000.0, consensus.Conservative)
		assert.Equal(t, 760000.0, consensus.Recommended)
		assert.Equal(t, 810000.0, consensus.Aggressive)
		assert.Equal(t, 11.8, consensus.VariancePercent)
		assert.Equal(t, 3, consensus.TotalSources)

		require.Len(t, consensus.AllSources, 3)
		assert.Equal(t, domain.SourceInternal, consensus.AllSources[0].SourceType)
		assert.Equal(t, domain.SourceExternal, consensus.AllSources[1].SourceType)
	})

	t.Run("single source has zero variance", func(t *testing.T) {
		consensus, err := AggregateValuation(750000, nil)
		require.NoError(t, err)

		assert.Equal(t, 750000.0, consensus.Conservative)
		assert.Equal(t, 750000.0, consensus.Recommended)
		assert.Equal(t, 750000.0, consensus.Aggressive)
		assert.Equal(t, 0.0, consensus.VariancePercent)
		assert.Equal(t, 1, consensus.TotalSources)
	})

	t.Run("no internal value, externals only", func(t *testing.T) {
		externals := []domain.ValueEstimate{
			{Name: "County comps", Value: 400000},
			{Name: "Neighborhood trend", Value: 420000},
		}

		consensus, err := AggregateValuation(0, externals)
		require.NoError(t, err)
		assert.Equal(t, 2, consensus.TotalSources)
		assert.Equal(t, 410000.0, consensus.Recommended)
	})

	t.Run("no sources at all", func(t *testing.T) {
		_, err := AggregateValuation(0, nil)
		assert.ErrorIs(t, err, domain.ErrNoValuationData)
	})

	t.Run("recommended stays inside the band", func(t *testing.T) {
		cases := [][]float64{
			{100000, 150000, 200000},
			{333333.33, 333333.34},
			{250000, 987654.32, 100000},
		}
		for _, values := range cases {
			externals := make([]domain.ValueEstimate, len(values))
			for i, v := range values {
				externals[i] = domain.ValueEstimate{Name: "src", Value: v}
			}
			consensus, err := AggregateValuation(0, externals)
			require.NoError(t, err)
			assert.LessOrEqual(t, consensus.Conservative, consensus.Recommended)
			assert.LessOrEqual(t, consensus.Recommended, consensus.Aggressive)
		}
	})

	t.Run("aggregation is deterministic", func(t *testing.T) {
		externals := []domain.ValueEstimate{
			{Name: "a", Value: 711111.11},
			{Name: "b", Value: 822222.22},
		}
		first, err := AggregateValuation(765432.1, externals)
		require.NoError(t, err)
		second, err := AggregateValuation(765432.1, externals)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestComputePIWFigures(t *testing.T) {
	t.Run("loan maximums from the recommended value", func(t *testing.T) {
		consensus := domain.ValuationConsensus{Recommended: 760000}
		figures := ComputePIWFigures(750000, consensus)

		assert.Equal(t, 684000.0, figures.RateTermMax)
		assert.Equal(t, 608000.0, figures.CashOutMax)
		assert.True(t, figures.PIWEligible)
	})

	t.Run("internal estimate too far from consensus", func(t *testing.T) {
		consensus := domain.ValuationConsensus{Recommended: 500000}
		figures := ComputePIWFigures(560000, consensus)
		assert.False(t, figures.PIWEligible)
	})

	t.Run("deviation exactly at the tolerance is eligible", func(t *testing.T) {
		consensus := domain.ValuationConsensus{Recommended: 500000}
		figures := ComputePIWFigures(550000, consensus)
		assert.True(t, figures.PIWEligible)
	})

	t.Run("no internal estimate means no waiver", func(t *testing.T) {
		consensus := domain.ValuationConsensus{Recommended: 500000}
		figures := ComputePIWFigures(0, consensus)
		assert.False(t, figures.PIWEligible)
		assert.Equal(t, 450000.0, figures.RateTermMax)
	})
}

func TestEvaluateProperty(t *testing.T) {
	validator, err := schema.NewValidator()
	require.NoError(t, err)
	log := logger.NewTestLogger(t)

	t.Run("model disabled, internal value carries the consensus", func(t *testing.T) {
		svc := NewValuationService(NewAIService(nil, validator, log), log)

		resp, err := svc.EvaluateProperty(context.Background(), domain.AVMRequest{
			Address: "123 Main St", City: "Austin", State: "TX", Zip: "78701",
			InternalValue: 750000,
		})
		require.NoError(t, err)

		assert.Equal(t, 750000.0, resp.AUSRecommended.Value)
		assert.Equal(t, 1, resp.SourceComparison.TotalSources)
		assert.NotEmpty(t, resp.Methodology)
		assert.NotEmpty(t, resp.Disclaimer)
		assert.Contains(t, resp.Notes, "model disabled; no external comparables requested")
	})

	t.Run("model disabled and no internal value", func(t *testing.T) {
		svc := NewValuationService(NewAIService(nil, validator, log), log)

		_, err := svc.EvaluateProperty(context.Background(), domain.AVMRequest{
			Address: "123 Main St", City: "Austin", State: "TX", Zip: "78701",
		})
		assert.ErrorIs(t, err, domain.ErrNoValuationData)
	})

	t.Run("model failure is tolerated when the internal value stands alone", func(t *testing.T) {
		client := &scriptedClient{replies: []reply{{err: errors.New("connection refused")}, {err: errors.New("connection refused")}}}
		svc := NewValuationService(NewAIService(client, validator, log), log)

		resp, err := svc.EvaluateProperty(context.Background(), domain.AVMRequest{
			Address: "123 Main St", City: "Austin", State: "TX", Zip: "78701",
			InternalValue: 750000,
		})
		require.NoError(t, err)
		assert.Equal(t, 750000.0, resp.AUSRecommended.Value)
		require.NotEmpty(t, resp.Notes)
		assert.Contains(t, resp.Notes[0], "external comparables unavailable")
	})

	t.Run("model failure with nothing to fall back on", func(t *testing.T) {
		client := &scriptedClient{replies: []reply{{err: errors.New("connection refused")}, {err: errors.New("connection refused")}}}
		svc := NewValuationService(NewAIService(client, validator, log), log)

		_, err := svc.EvaluateProperty(context.Background(), domain.AVMRequest{
			Address: "123 Main St", City: "Austin", State: "TX", Zip: "78701",
		})
		assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	})
}
