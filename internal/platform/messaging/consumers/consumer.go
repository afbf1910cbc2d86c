package consumers

import (
	"context"
	"log/slog"
	"time"

	"github.com/personal-finance-ledger/internal/config"
	"github.com/segmentio/kafka-go"
)

// MessageHandler processes one message. A nil error commits the offset; any error
// leaves it uncommitted and the same message is handed to the handler again.
type MessageHandler func(ctx context.Context, key []byte, value []byte) error

// Consumer defines the message queue consumer interface
type Consumer interface {
	Subscribe(ctx context.Context, handler MessageHandler) error
	Close() error
}

// MessageReader wraps kafka.Reader methods for testing
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConsumer implements Consumer using a consumer group reader
type KafkaConsumer struct {
	reader     MessageReader
	logger     *slog.Logger
	topic      string
	groupID    string
	retryDelay time.Duration
	done       chan struct{}
}

func NewKafkaConsumer(logger *slog.Logger, cfg *config.KafkaConfig) *KafkaConsumer {
	return &KafkaConsumer{
		logger:  logger,
		topic:   cfg.BatchTopic,
		groupID: cfg.ConsumerGroup,
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     []string{cfg.Brokers},
			Topic:       cfg.BatchTopic,
			GroupID:     cfg.ConsumerGroup,
			MinBytes:    cfg.MinBytes,
			MaxBytes:    cfg.MaxBytes,
			MaxWait:     cfg.MaxWait,
			StartOffset: startOffset(cfg.StartOffset),
		}),
		retryDelay: time.Second,
		done:       make(chan struct{}),
	}
}

// startOffset maps the configured value to a reader offset; only kafka.LastOffset is honored
func startOffset(configured int64) int64 {
	if configured == kafka.LastOffset {
		return kafka.LastOffset
	}
	return kafka.FirstOffset
}

// Subscribe starts the fetch loop in the background and returns immediately.
// Done is closed once the loop has stopped.
func (c *KafkaConsumer) Subscribe(ctx context.Context, handler MessageHandler) error {
	c.logger.Info("Subscribed to Kafka topic",
		"topic", c.topic,
		"group_id", c.groupID,
	)

	go func() {
		defer close(c.done)
		for {
			if ctx.Err() != nil {
				c.logger.Info("Context canceled, stopping consumer",
					"topic", c.topic,
					"group_id", c.groupID,
				)
				return
			}

			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				c.logger.Error("Failed to fetch message from Kafka",
					"topic", c.topic,
					"group_id", c.groupID,
					"error", err,
				)
				c.sleep(ctx)
				continue
			}

			c.logger.Debug("Received message from Kafka",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"key", string(msg.Key),
			)

			if !c.handle(ctx, msg, handler) {
				continue
			}

			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Error("Failed to commit message after successful processing",
					"topic", msg.Topic,
					"partition", msg.Partition,
					"offset", msg.Offset,
					"error", err,
				)
			}
		}
	}()

	return nil
}

// handle retries the handler on msg until it succeeds or ctx is canceled
func (c *KafkaConsumer) handle(ctx context.Context, msg kafka.Message, handler MessageHandler) bool {
	for attempt := 1; ; attempt++ {
		err := handler(ctx, msg.Key, msg.Value)
		if err == nil {
			return true
		}
		c.logger.Error("Failed to process message, will not commit offset",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"key", string(msg.Key),
			"attempt", attempt,
			"error", err,
		)
		c.sleep(ctx)
		if ctx.Err() != nil {
			return false
		}
	}
}

// Done returns a channel closed after the fetch loop exits
func (c *KafkaConsumer) Done() <-chan struct{} {
	return c.done
}

func (c *KafkaConsumer) sleep(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(c.retryDelay):
	}
}

func (c *KafkaConsumer) Close() error {
	if c.reader != nil {
		return c.reader.Close()
	}
	return nil
}
