package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/personal-finance-ledger/internal/config"
	"github.com/segmentio/kafka-go"
)

// BatchRequestProducer publishes batch requests keyed by identity, so that all batches
// of one identity land on the same partition and are applied in submission order.
type BatchRequestProducer struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

// NewBatchRequestProducer creates the producer and ensures the batch topic exists
func NewBatchRequestProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*BatchRequestProducer, error) {
	if cfg.BatchTopic == "" {
		return nil, fmt.Errorf("kafka batch topic is not configured")
	}

	if err := ensureTopic(cfg, cfg.BatchTopic, logger); err != nil {
		return nil, err
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.BatchTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: cfg.MaxWait,
	}

	return &BatchRequestProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.BatchTopic,
	}, nil
}

// Publish writes value as JSON. The write is synchronous: a nil error means the broker
// has accepted the batch.
func (p *BatchRequestProducer) Publish(ctx context.Context, key string, value any) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal batch request: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish batch request",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish batch request to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published batch request",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *BatchRequestProducer) Close() error {
	p.logger.Info("Closing batch request producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
