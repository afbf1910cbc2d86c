package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/personal-finance-ledger/internal/domain/shared"
	"github.com/personal-finance-ledger/internal/platform/messaging/consumers"
)

// MockProcessingService for testing
type MockProcessingService struct {
	mock.Mock
}

func (m *MockProcessingService) ProcessBatch(ctx context.Context, request *shared.BatchRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

// MockDeadLetterPublisher for testing
type MockDeadLetterPublisher struct {
	mock.Mock
}

func (m *MockDeadLetterPublisher) PublishToDLQ(ctx context.Context, key string, value []byte, reason string) error {
	args := m.Called(ctx, key, value, reason)
	return args.Error(0)
}

func (m *MockDeadLetterPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

var _ consumers.MessageHandler = (&BatchEventHandler{}).HandleMessage

func TestHandleMessage(t *testing.T) {
	validRequest := &shared.BatchRequest{
		BatchID:       uuid.New(),
		Identity:      "alice",
		Amounts:       []float64{100},
		Descriptions:  []string{"salary"},
		Categories:    []string{"job"},
		IsIncomes:     []bool{true},
		Timestamps:    []uint64{1717200000},
		CorrelationID: "corr1",
		SubmittedAt:   time.Now().UTC(),
	}
	validJSON, err := json.Marshal(validRequest)
	assert.NoError(t, err)

	matchesBatch := mock.MatchedBy(func(req *shared.BatchRequest) bool {
		return req.BatchID == validRequest.BatchID && req.Identity == "alice" && len(req.Amounts) == 1
	})

	tests := []struct {
		name        string
		value       []byte
		setupMocks  func(*MockProcessingService, *MockDeadLetterPublisher)
		expectError bool
	}{
		{
			name:  "successful processing",
			value: validJSON,
			setupMocks: func(p *MockProcessingService, _ *MockDeadLetterPublisher) {
				p.On("ProcessBatch", mock.Anything, matchesBatch).Return(nil)
			},
		},
		{
			name:  "processing error is returned for redelivery",
			value: validJSON,
			setupMocks: func(p *MockProcessingService, _ *MockDeadLetterPublisher) {
				p.On("ProcessBatch", mock.Anything, matchesBatch).Return(errors.New("storage unavailable"))
			},
			expectError: true,
		},
		{
			name:  "invalid JSON goes to DLQ",
			value: []byte("invalid json"),
			setupMocks: func(_ *MockProcessingService, d *MockDeadLetterPublisher) {
				d.On("PublishToDLQ", mock.Anything, "alice", []byte("invalid json"), mock.AnythingOfType("string")).Return(nil)
			},
		},
		{
			name:  "DLQ failure is returned",
			value: []byte("invalid json"),
			setupMocks: func(_ *MockProcessingService, d *MockDeadLetterPublisher) {
				d.On("PublishToDLQ", mock.Anything, "alice", []byte("invalid json"), mock.AnythingOfType("string")).Return(errors.New("broker down"))
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			processing := &MockProcessingService{}
			dlq := &MockDeadLetterPublisher{}
			tt.setupMocks(processing, dlq)

			handler := NewBatchEventHandler(slog.Default(), processing, dlq)
			err := handler.HandleMessage(context.Background(), []byte("alice"), tt.value)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			processing.AssertExpectations(t)
			dlq.AssertExpectations(t)
		})
	}
}

func TestHandleMessage_WithoutDLQ(t *testing.T) {
	handler := NewBatchEventHandler(slog.Default(), &MockProcessingService{}, nil)

	err := handler.HandleMessage(context.Background(), []byte("alice"), []byte("{"))
	assert.ErrorContains(t, err, "failed to unmarshal message value")
}
