package shared

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransactionType_Matches(t *testing.T) {
	tests := []struct {
		name     string
		txType   TransactionType
		isIncome bool
		want     bool
	}{
		{"all income", TransactionTypeAll, true, true},
		{"all expense", TransactionTypeAll, false, true},
		{"income income", TransactionTypeIncome, true, true},
		{"income expense", TransactionTypeIncome, false, false},
		{"expense income", TransactionTypeExpense, true, false},
		{"expense expense", TransactionTypeExpense, false, true},
		{"unknown income", TransactionType("TRANSFER"), true, false},
		{"unknown expense", TransactionType("income"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.txType.Matches(tt.isIncome))
		})
	}
}

func TestIdentity_Authorize(t *testing.T) {
	assert.ErrorIs(t, AnonymousIdentity.Authorize(), ErrUnauthenticated)
	assert.Equal(t, "please authenticate", AnonymousIdentity.Authorize().Error())
	assert.NoError(t, Identity("user-1").Authorize())
}

func TestBatchStatus_IsTerminal(t *testing.T) {
	assert.False(t, BatchStatusPending.IsTerminal())
	assert.True(t, BatchStatusApplied.IsTerminal())
	assert.True(t, BatchStatusRejected.IsTerminal())
}

func TestExternalServiceError_Error(t *testing.T) {
	err := &ExternalServiceError{Service: "exchange_rate", StatusCode: 503, Message: "Service Unavailable"}
	assert.Equal(t, "HTTP request failed. Code: 503, Msg: Service Unavailable", err.Error())

	plain := &ExternalServiceError{Service: "advice", Message: "No advice available due to AI error"}
	assert.Equal(t, "No advice available due to AI error", plain.Error())

	cause := errors.New("connection refused")
	transport := &ExternalServiceError{Service: "exchange_rate", Err: cause}
	assert.Equal(t, "HTTP request failed. Code: 0, Msg: connection refused", transport.Error())
	assert.ErrorIs(t, transport, cause)
}

func TestDecodeError_Unwrap(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := &DecodeError{Service: "exchange_rate", Message: "Failed to parse JSON", Err: cause}

	assert.Equal(t, "Failed to parse JSON", err.Error())
	assert.ErrorIs(t, err, cause)
}
