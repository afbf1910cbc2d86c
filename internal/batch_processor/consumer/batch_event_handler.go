package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/personal-finance-ledger/internal/batch_processor/service"
	"github.com/personal-finance-ledger/internal/domain/shared"
	"github.com/personal-finance-ledger/internal/platform/messaging/producers"
)

// BatchEventHandler handles incoming batch request messages from Kafka
type BatchEventHandler struct {
	processingService service.ProcessingService
	producer          producers.DeadLetterPublisher
	logger            *slog.Logger
}

// NewBatchEventHandler creates a new handler. A nil producer disables dead-lettering.
func NewBatchEventHandler(
	logger *slog.Logger,
	processingService service.ProcessingService,
	producer producers.DeadLetterPublisher,
) *BatchEventHandler {
	return &BatchEventHandler{
		processingService: processingService,
		producer:          producer,
		logger:            logger,
	}
}

// HandleMessage processes Kafka messages. Its signature matches consumers.MessageHandler.
func (h *BatchEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var request shared.BatchRequest
	if err := json.Unmarshal(value, &request); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal batch request from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)

		if h.producer != nil {
			dlqReason := fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error())
			if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, dlqReason); dlqErr != nil {
				h.logger.Error("Failed to publish message to DLQ after unmarshal error",
					"dlq_error", dlqErr,
					"original_error", err,
					"message_key", string(key),
				)
			} else {
				h.logger.Info("Published unprocessable message to DLQ", "message_key", string(key), "reason", dlqReason)
				return nil
			}
		}
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	logger := h.logger
	if request.CorrelationID != "" {
		logger = h.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Received batch request for processing",
		"batch_id", request.BatchID.String(),
		"identity", request.Identity.String(),
		"size", len(request.Amounts),
	)

	if err := h.processingService.ProcessBatch(ctx, &request); err != nil {
		logger.Error("Failed to process batch",
			"batch_id", request.BatchID.String(),
			"error", err,
		)
		return fmt.Errorf("processing batch %s failed: %w", request.BatchID.String(), err)
	}

	return nil
}
