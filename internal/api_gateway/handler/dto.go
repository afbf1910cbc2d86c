package handler

import (
	"time"

	"github.com/personal-finance-ledger/internal/domain/batch"
	"github.com/personal-finance-ledger/internal/domain/ledger"
)

// TransactionsRequest is a write batch in parallel-array form. The income and expense
// endpoints ignore IsIncomes.
type TransactionsRequest struct {
	Amounts      []float64 `json:"amounts"`
	Descriptions []string  `json:"descriptions"`
	Categories   []string  `json:"categories"`
	IsIncomes    []bool    `json:"is_incomes"`
	Timestamps   []uint64  `json:"timestamps"`
}

// TransactionQuery holds the filters of the listing endpoint
type TransactionQuery struct {
	Type     string `form:"type,default=ALL"`
	Category string `form:"category"`
	Month    string `form:"month"`
}

// MessageResponse carries a confirmation message
type MessageResponse struct {
	Message string `json:"message"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID          uint64  `json:"id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	IsIncome    bool    `json:"is_income"`
	Timestamp   uint64  `json:"timestamp"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
}

// TotalResponse is a single aggregate, scoped to Month when one was given
type TotalResponse struct {
	Month string  `json:"month,omitempty"`
	Total float64 `json:"total"`
}

// AnalysisResponse represents the lifetime income and expense totals
type AnalysisResponse struct {
	TotalIncome   float64 `json:"total_income"`
	TotalExpenses float64 `json:"total_expenses"`
}

// BatchAcceptedResponse is returned when a batch is queued for asynchronous application
type BatchAcceptedResponse struct {
	BatchID string `json:"batch_id"`
	Status  string `json:"status"`
}

// BatchStatusResponse represents the journal record of a batch
type BatchStatusResponse struct {
	BatchID       string `json:"batch_id"`
	Status        string `json:"status"`
	Count         int    `json:"count"`
	FailureReason string `json:"failure_reason,omitempty"`
	SubmittedAt   string `json:"submitted_at"`
	ProcessedAt   string `json:"processed_at,omitempty"`
}

// ExchangeRateResponse represents a conversion rate and an optional converted amount
type ExchangeRateResponse struct {
	From      string   `json:"from"`
	To        string   `json:"to"`
	Rate      float64  `json:"rate"`
	Amount    *float64 `json:"amount,omitempty"`
	Converted *float64 `json:"converted,omitempty"`
}

// AdviceRequest carries preformatted figures; leave all empty to use the caller's ledger
type AdviceRequest struct {
	TotalIncome   string `json:"total_income"`
	TotalExpenses string `json:"total_expenses"`
	Balance       string `json:"balance"`
}

// AdviceResponse represents generated advice
type AdviceResponse struct {
	Advice string `json:"advice"`
}

func mapTransactions(txs []ledger.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, TransactionResponse{
			ID:          tx.ID,
			Amount:      tx.Amount,
			Description: tx.Description,
			IsIncome:    tx.IsIncome,
			Timestamp:   tx.Timestamp,
			Date:        tx.Date,
			Category:    tx.Category,
		})
	}
	return out
}

func mapBatchRecord(record *batch.Record) BatchStatusResponse {
	response := BatchStatusResponse{
		BatchID:       record.BatchID.String(),
		Status:        string(record.Status),
		Count:         record.Count,
		FailureReason: record.FailureReason,
		SubmittedAt:   record.SubmittedAt.Format(time.RFC3339),
	}
	if record.ProcessedAt != nil {
		response.ProcessedAt = record.ProcessedAt.Format(time.RFC3339)
	}
	return response
}
