package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mortgage-advisor/domain"
	"mortgage-advisor/logger"
	"mortgage-advisor/schema"
)

func TestPrepare(t *testing.T) {
	validator, err := schema.NewValidator()
	require.NoError(t, err)
	log := logger.NewTestLogger(t)
	svc := NewCallPrepService(NewAIService(nil, validator, log), log)

	baseReq := domain.CallPrepRequest{
		PropertyValue: 500000,
		InternalValue: 480000,
		Accounts: []domain.LiabilityAccount{
			{Creditor: "Bank", AccountType: "mortgage", Balance: 300000, Payment: 1800},
			{Creditor: "Visa", AccountType: "credit_card", Balance: 10000, Payment: 300, InterestRate: floatPtr(22)},
		},
	}

	hasPointContaining := func(points []string, substr string) bool {
		for _, p := range points {
			if strings.Contains(p, substr) {
				return true
			}
		}
		return false
	}

	t.Run("briefing covers equity, plan, and program maximums", func(t *testing.T) {
		resp, err := svc.Prepare(context.Background(), baseReq)
		require.NoError(t, err)

		assert.True(t, hasPointContaining(resp.TalkingPoints, "Estimated equity"))
		assert.True(t, hasPointContaining(resp.TalkingPoints, "Consolidation plan"))
		assert.True(t, hasPointContaining(resp.TalkingPoints, "Program maximums"))
		assert.NotEmpty(t, resp.ConversationOpener)
		assert.NotEmpty(t, resp.RecommendedNextStep)
	})

	t.Run("address leads the talking points when supplied", func(t *testing.T) {
		req := baseReq
		req.Address = "123 Main St, Austin, TX"

		resp, err := svc.Prepare(context.Background(), req)
		require.NoError(t, err)

		require.NotEmpty(t, resp.TalkingPoints)
		assert.Contains(t, resp.TalkingPoints[0], "123 Main St")
	})

	t.Run("proposed rate adds an interest-savings point", func(t *testing.T) {
		req := baseReq
		req.ProposedMortgageRate = floatPtr(7)

		resp, err := svc.Prepare(context.Background(), req)
		require.NoError(t, err)

		assert.True(t, hasPointContaining(resp.TalkingPoints, "saves roughly"))
	})

	t.Run("no savings point when nothing beats the proposed rate", func(t *testing.T) {
		req := baseReq
		req.Accounts = []domain.LiabilityAccount{
			{Creditor: "StudentCo", AccountType: "student_loan", Balance: 20000, Payment: 250, InterestRate: floatPtr(4)},
		}
		req.ProposedMortgageRate = floatPtr(7)

		resp, err := svc.Prepare(context.Background(), req)
		require.NoError(t, err)

		assert.False(t, hasPointContaining(resp.TalkingPoints, "saves roughly"))
	})
}
