package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/personal-finance-ledger/internal/api_gateway/middleware"
	"github.com/personal-finance-ledger/internal/api_gateway/service"
	"github.com/personal-finance-ledger/internal/domain/shared"
)

// LedgerHandler handles HTTP requests for ledger writes and queries
type LedgerHandler struct {
	ledgerService service.LedgerService
	logger        *slog.Logger
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(logger *slog.Logger, ledgerService service.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

type addFunc func(ctx context.Context, identity shared.Identity, cols service.Columns) (string, error)

func (h *LedgerHandler) add(c *gin.Context, operation string, fn addFunc) {
	var req TransactionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", "operation", operation, "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	msg, err := fn(c.Request.Context(), middleware.GetIdentity(c), columnsFrom(req))
	if err != nil {
		respondError(c, h.logger, operation, err)
		return
	}
	RespondOK(c, MessageResponse{Message: msg})
}

// AddTransactions appends a batch with per-entry directions
func (h *LedgerHandler) AddTransactions(c *gin.Context) {
	h.add(c, "add_transactions", h.ledgerService.AddTransactions)
}

// AddIncome appends a batch of income entries
func (h *LedgerHandler) AddIncome(c *gin.Context) {
	h.add(c, "add_income", h.ledgerService.AddIncome)
}

// AddExpense appends a batch of expense entries
func (h *LedgerHandler) AddExpense(c *gin.Context) {
	h.add(c, "add_expense", h.ledgerService.AddExpense)
}

// SubmitBatch queues a batch for asynchronous application and answers 202
func (h *LedgerHandler) SubmitBatch(c *gin.Context) {
	var req TransactionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", "operation", "submit_batch", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	batchID, err := h.ledgerService.SubmitBatch(c.Request.Context(), middleware.GetIdentity(c), columnsFrom(req), middleware.GetCorrelationID(c))
	if err != nil {
		respondError(c, h.logger, "submit_batch", err)
		return
	}

	RespondAccepted(c, BatchAcceptedResponse{
		BatchID: batchID.String(),
		Status:  string(shared.BatchStatusPending),
	})
}

// GetBatch returns the processing outcome of an asynchronous batch
func (h *LedgerHandler) GetBatch(c *gin.Context) {
	idParam := c.Param("id")
	batchID, err := uuid.Parse(idParam)
	if err != nil {
		RespondBadRequest(c, "Invalid batch ID")
		return
	}

	record, err := h.ledgerService.BatchStatus(c.Request.Context(), middleware.GetIdentity(c), batchID)
	if err != nil {
		respondError(c, h.logger, "get_batch", err)
		return
	}
	RespondOK(c, mapBatchRecord(record))
}

// ListTransactions filters the caller's transactions by type, category and month
func (h *LedgerHandler) ListTransactions(c *gin.Context) {
	var q TransactionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		RespondBadRequest(c, "Invalid query parameters")
		return
	}

	txType := shared.TransactionType(q.Type)
	txs, err := h.ledgerService.Transactions(c.Request.Context(), middleware.GetIdentity(c), txType, q.Category, q.Month)
	if err != nil {
		respondError(c, h.logger, "list_transactions", err)
		return
	}
	RespondWithList(c, mapTransactions(txs), len(txs))
}

// SumIncome totals income, optionally for one month
func (h *LedgerHandler) SumIncome(c *gin.Context) {
	month := c.Query("month")
	total, err := h.ledgerService.SumIncome(c.Request.Context(), middleware.GetIdentity(c), month)
	if err != nil {
		respondError(c, h.logger, "sum_income", err)
		return
	}
	RespondOK(c, TotalResponse{Month: month, Total: total})
}

// SumExpense totals expenses, optionally for one month
func (h *LedgerHandler) SumExpense(c *gin.Context) {
	month := c.Query("month")
	total, err := h.ledgerService.SumExpense(c.Request.Context(), middleware.GetIdentity(c), month)
	if err != nil {
		respondError(c, h.logger, "sum_expense", err)
		return
	}
	RespondOK(c, TotalResponse{Month: month, Total: total})
}

// Balance returns the stored balance, or the net of one month
func (h *LedgerHandler) Balance(c *gin.Context) {
	month := c.Query("month")
	total, err := h.ledgerService.Balance(c.Request.Context(), middleware.GetIdentity(c), month)
	if err != nil {
		respondError(c, h.logger, "balance", err)
		return
	}
	RespondOK(c, TotalResponse{Month: month, Total: total})
}

// Analysis returns lifetime income and expense totals
func (h *LedgerHandler) Analysis(c *gin.Context) {
	income, expenses, err := h.ledgerService.Analysis(c.Request.Context(), middleware.GetIdentity(c))
	if err != nil {
		respondError(c, h.logger, "analysis", err)
		return
	}
	RespondWithData(c, http.StatusOK, AnalysisResponse{TotalIncome: income, TotalExpenses: expenses})
}

func columnsFrom(req TransactionsRequest) service.Columns {
	return service.Columns{
		Amounts:      req.Amounts,
		Descriptions: req.Descriptions,
		Categories:   req.Categories,
		IsIncomes:    req.IsIncomes,
		Timestamps:   req.Timestamps,
	}
}
