package handler

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/personal-finance-ledger/internal/api_gateway/middleware"
	"github.com/personal-finance-ledger/internal/api_gateway/service"
	"github.com/personal-finance-ledger/internal/platform/advice"
)

// ExternalHandler exposes the exchange rate and advice collaborators
type ExternalHandler struct {
	externalService service.ExternalService
	logger          *slog.Logger
}

// NewExternalHandler creates a new external collaborator handler
func NewExternalHandler(logger *slog.Logger, externalService service.ExternalService) *ExternalHandler {
	return &ExternalHandler{
		externalService: externalService,
		logger:          logger,
	}
}

// ExchangeRate returns the configured pair's rate and converts ?amount= when present
func (h *ExternalHandler) ExchangeRate(c *gin.Context) {
	var amount *float64
	if raw := c.Query("amount"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			RespondBadRequest(c, "Invalid amount")
			return
		}
		amount = &parsed
	}

	quote, err := h.externalService.ExchangeRate(c.Request.Context(), middleware.GetIdentity(c), amount)
	if err != nil {
		respondError(c, h.logger, "exchange_rate", err)
		return
	}

	RespondOK(c, ExchangeRateResponse{
		From:      quote.From,
		To:        quote.To,
		Rate:      quote.Rate,
		Amount:    quote.Amount,
		Converted: quote.Converted,
	})
}

// Advice asks for financial advice. An empty body is accepted.
func (h *ExternalHandler) Advice(c *gin.Context) {
	var req AdviceRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	text, err := h.externalService.Advice(c.Request.Context(), middleware.GetIdentity(c), advice.Summary{
		TotalIncome:   req.TotalIncome,
		TotalExpenses: req.TotalExpenses,
		Balance:       req.Balance,
	})
	if err != nil {
		respondError(c, h.logger, "advice", err)
		return
	}
	RespondOK(c, AdviceResponse{Advice: text})
}
