package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/personal-finance-ledger/internal/domain/shared"
	"github.com/personal-finance-ledger/internal/platform/advice"
	"github.com/personal-finance-ledger/internal/platform/exchange"
)

// ExternalServiceImpl implements the ExternalService interface
type ExternalServiceImpl struct {
	rates   RateProvider
	advisor Advisor
	ledgers LedgerReader
	logger  *slog.Logger
}

// NewExternalService creates a new external collaborator service
func NewExternalService(logger *slog.Logger, rates RateProvider, advisor Advisor, ledgers LedgerReader) ExternalService {
	return &ExternalServiceImpl{
		rates:   rates,
		advisor: advisor,
		ledgers: ledgers,
		logger:  logger,
	}
}

func (s *ExternalServiceImpl) ExchangeRate(ctx context.Context, identity shared.Identity, amount *float64) (*Quote, error) {
	if err := identity.Authorize(); err != nil {
		return nil, err
	}

	rate, err := s.rates.Rate(ctx)
	if err != nil {
		s.logger.Error("Failed to get exchange rate", "identity", identity.String(), "error", err)
		return nil, err
	}

	from, to := s.rates.Pair()
	quote := &Quote{From: from, To: to, Rate: rate}
	if amount != nil {
		converted := exchange.Convert(*amount, rate)
		quote.Amount = amount
		quote.Converted = &converted
	}
	return quote, nil
}

func (s *ExternalServiceImpl) Advice(ctx context.Context, identity shared.Identity, summary advice.Summary) (string, error) {
	if err := identity.Authorize(); err != nil {
		return "", err
	}

	if summary == (advice.Summary{}) {
		l, err := s.ledgers.Snapshot(ctx, identity)
		if err != nil {
			return "", err
		}
		income, expenses := l.Analysis()
		summary = advice.Summary{
			TotalIncome:   fmt.Sprintf("%.2f", income),
			TotalExpenses: fmt.Sprintf("%.2f", expenses),
			Balance:       fmt.Sprintf("%.2f", l.BalanceFor("")),
		}
	}

	text, err := s.advisor.Advise(ctx, summary)
	if err != nil {
		s.logger.Error("Failed to get advice", "identity", identity.String(), "error", err)
		return "", err
	}
	return text, nil
}
