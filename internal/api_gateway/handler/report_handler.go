package handler

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/personal-finance-ledger/internal/api_gateway/middleware"
	"github.com/personal-finance-ledger/internal/api_gateway/service"
	"github.com/personal-finance-ledger/internal/domain/ledger"
	"github.com/personal-finance-ledger/internal/domain/shared"
)

// ReportHandler serves the transaction report variants
type ReportHandler struct {
	ledgerService service.LedgerService
	logger        *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(logger *slog.Logger, ledgerService service.LedgerService) *ReportHandler {
	return &ReportHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

type reportFunc func(ctx context.Context, identity shared.Identity, month string) ([]ledger.Transaction, error)

func (h *ReportHandler) respond(c *gin.Context, operation, month string, fn reportFunc) {
	txs, err := fn(c.Request.Context(), middleware.GetIdentity(c), month)
	if err != nil {
		respondError(c, h.logger, operation, err)
		return
	}
	RespondWithList(c, mapTransactions(txs), len(txs))
}

// All returns every transaction in insertion order
func (h *ReportHandler) All(c *gin.Context) {
	h.respond(c, "report", "", func(ctx context.Context, identity shared.Identity, _ string) ([]ledger.Transaction, error) {
		return h.ledgerService.Report(ctx, identity)
	})
}

// ByMonth returns the transactions of the month path parameter
func (h *ReportHandler) ByMonth(c *gin.Context) {
	h.respond(c, "report_by_month", c.Param("month"), h.ledgerService.ReportByMonth)
}

// Income returns income transactions, optionally for one month
func (h *ReportHandler) Income(c *gin.Context) {
	h.respond(c, "income_report", c.Query("month"), h.ledgerService.IncomeReport)
}

// Expense returns expense transactions, optionally for one month
func (h *ReportHandler) Expense(c *gin.Context) {
	h.respond(c, "expense_report", c.Query("month"), h.ledgerService.ExpenseReport)
}
