package producers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/personal-finance-ledger/internal/config"
	"github.com/segmentio/kafka-go"
)

const (
	topicLookupAttempts = 5
	topicLookupBackoff  = 2 * time.Second
)

// TopicAdmin is the subset of *kafka.Conn used to provision topics
type TopicAdmin interface {
	ReadPartitions(topics ...string) ([]kafka.Partition, error)
	CreateTopics(topics ...kafka.TopicConfig) error
}

func ensureTopic(cfg *config.KafkaConfig, topic string, logger *slog.Logger) error {
	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return fmt.Errorf("failed to dial kafka: %w", err)
	}
	defer conn.Close()

	if err := createTopicIfNotExists(conn, topic, cfg.NumPartitions, cfg.ReplicationFactor, logger, topicLookupBackoff); err != nil {
		return fmt.Errorf("failed to ensure topic %s exists: %w", topic, err)
	}
	return nil
}

// createTopicIfNotExists creates the topic when its partitions cannot be read after a few attempts
func createTopicIfNotExists(admin TopicAdmin, topic string, numPartitions, replicationFactor int, logger *slog.Logger, backoff time.Duration) error {
	var (
		partitions []kafka.Partition
		err        error
	)

	for i := 0; i < topicLookupAttempts; i++ {
		partitions, err = admin.ReadPartitions(topic)
		if err == nil && len(partitions) > 0 {
			logger.Info("Kafka topic already exists", "topic", topic)
			return nil
		}
		logger.Warn("Failed to read partitions, retrying", "topic", topic, "attempt", i+1, "error", err)
		time.Sleep(backoff)
	}

	topicConfig := kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     max(numPartitions, 1),
		ReplicationFactor: max(replicationFactor, 1),
	}

	logger.Info("Creating Kafka topic",
		"topic", topic,
		"partitions", topicConfig.NumPartitions,
		"replication_factor", topicConfig.ReplicationFactor,
	)
	if err := admin.CreateTopics(topicConfig); err != nil {
		return fmt.Errorf("failed to create kafka topic %s: %w", topic, err)
	}
	return nil
}
