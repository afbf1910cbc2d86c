package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/personal-finance-ledger/internal/data/memory"
	"github.com/personal-finance-ledger/internal/domain/shared"
	"github.com/personal-finance-ledger/internal/platform/advice"
)

type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) Rate(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockRateProvider) Pair() (string, string) {
	return "USD", "IDR"
}

type MockAdvisor struct {
	mock.Mock
}

func (m *MockAdvisor) Advise(ctx context.Context, summary advice.Summary) (string, error) {
	args := m.Called(ctx, summary)
	return args.String(0), args.Error(1)
}

func TestExternalService_ExchangeRate(t *testing.T) {
	ctx := context.Background()

	t.Run("RateOnly", func(t *testing.T) {
		rates := new(MockRateProvider)
		svc := NewExternalService(newTestLogger(), rates, new(MockAdvisor), newTestStore())
		rates.On("Rate", ctx).Return(16250.5, nil).Once()

		quote, err := svc.ExchangeRate(ctx, "user-1", nil)
		require.NoError(t, err)
		assert.Equal(t, &Quote{From: "USD", To: "IDR", Rate: 16250.5}, quote)
	})

	t.Run("ConvertsAmount", func(t *testing.T) {
		rates := new(MockRateProvider)
		svc := NewExternalService(newTestLogger(), rates, new(MockAdvisor), newTestStore())
		rates.On("Rate", ctx).Return(3.45, nil).Once()

		amount := 0.1
		quote, err := svc.ExchangeRate(ctx, "user-1", &amount)
		require.NoError(t, err)
		require.NotNil(t, quote.Converted)
		assert.Equal(t, 0.35, *quote.Converted)
		assert.Equal(t, 0.1, *quote.Amount)
	})

	t.Run("UpstreamError", func(t *testing.T) {
		rates := new(MockRateProvider)
		svc := NewExternalService(newTestLogger(), rates, new(MockAdvisor), newTestStore())
		upstream := &shared.ExternalServiceError{Service: "exchange_rate", StatusCode: 500, Message: "boom"}
		rates.On("Rate", ctx).Return(0.0, upstream).Once()

		_, err := svc.ExchangeRate(ctx, "user-1", nil)
		assert.ErrorIs(t, err, upstream)
	})

	t.Run("Anonymous", func(t *testing.T) {
		rates := new(MockRateProvider)
		svc := NewExternalService(newTestLogger(), rates, new(MockAdvisor), newTestStore())

		_, err := svc.ExchangeRate(ctx, shared.AnonymousIdentity, nil)
		assert.ErrorIs(t, err, shared.ErrUnauthenticated)
		rates.AssertNotCalled(t, "Rate", mock.Anything)
	})
}

func TestExternalService_Advice(t *testing.T) {
	ctx := context.Background()

	t.Run("PassesSummaryThrough", func(t *testing.T) {
		advisor := new(MockAdvisor)
		svc := NewExternalService(newTestLogger(), new(MockRateProvider), advisor, newTestStore())
		summary := advice.Summary{TotalIncome: "1", TotalExpenses: "2", Balance: "-1"}
		advisor.On("Advise", ctx, summary).Return("spend less", nil).Once()

		text, err := svc.Advice(ctx, "user-1", summary)
		require.NoError(t, err)
		assert.Equal(t, "spend less", text)
	})

	t.Run("DerivesSummaryFromLedger", func(t *testing.T) {
		store := newTestStore()
		seed(t, NewLedgerService(newTestLogger(), store, memory.NewBatchRepository(), nil), "user-1")

		advisor := new(MockAdvisor)
		svc := NewExternalService(newTestLogger(), new(MockRateProvider), advisor, store)
		advisor.On("Advise", ctx, advice.Summary{
			TotalIncome:   "3000.00",
			TotalExpenses: "1450.50",
			Balance:       "1549.50",
		}).Return("keep going", nil).Once()

		text, err := svc.Advice(ctx, "user-1", advice.Summary{})
		require.NoError(t, err)
		assert.Equal(t, "keep going", text)
		advisor.AssertExpectations(t)
	})

	t.Run("AdvisorError", func(t *testing.T) {
		advisor := new(MockAdvisor)
		svc := NewExternalService(newTestLogger(), new(MockRateProvider), advisor, newTestStore())
		noAdvice := &shared.ExternalServiceError{Service: "advice", Message: advice.ErrNoAdviceMessage}
		advisor.On("Advise", ctx, mock.Anything).Return("", noAdvice).Once()

		_, err := svc.Advice(ctx, "user-1", advice.Summary{Balance: "0"})
		assert.EqualError(t, err, "No advice available due to AI error")
	})

	t.Run("Anonymous", func(t *testing.T) {
		advisor := new(MockAdvisor)
		svc := NewExternalService(newTestLogger(), new(MockRateProvider), advisor, newTestStore())

		_, err := svc.Advice(ctx, shared.AnonymousIdentity, advice.Summary{})
		assert.ErrorIs(t, err, shared.ErrUnauthenticated)
	})
}

