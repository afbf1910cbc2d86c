package producers

import (
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTopicAdmin struct {
	mock.Mock
}

func (m *MockTopicAdmin) ReadPartitions(topics ...string) ([]kafka.Partition, error) {
	args := m.Called(topics)
	partitions, _ := args.Get(0).([]kafka.Partition)
	return partitions, args.Error(1)
}

func (m *MockTopicAdmin) CreateTopics(topics ...kafka.TopicConfig) error {
	args := m.Called(topics)
	return args.Error(0)
}

func TestCreateTopicIfNotExists(t *testing.T) {
	logger := newTestLogger()

	t.Run("TopicExists", func(t *testing.T) {
		admin := new(MockTopicAdmin)
		admin.On("ReadPartitions", []string{"batches"}).Return([]kafka.Partition{{Topic: "batches"}}, nil).Once()

		require.NoError(t, createTopicIfNotExists(admin, "batches", 3, 1, logger, 0))
		admin.AssertExpectations(t)
		admin.AssertNotCalled(t, "CreateTopics", mock.Anything)
	})

	t.Run("CreatesMissingTopicWithDefaults", func(t *testing.T) {
		admin := new(MockTopicAdmin)
		admin.On("ReadPartitions", []string{"batches"}).Return(nil, errors.New("unknown topic")).Times(topicLookupAttempts)
		admin.On("CreateTopics", []kafka.TopicConfig{{Topic: "batches", NumPartitions: 1, ReplicationFactor: 1}}).Return(nil).Once()

		require.NoError(t, createTopicIfNotExists(admin, "batches", 0, 0, logger, 0))
		admin.AssertExpectations(t)
	})

	t.Run("CreateFails", func(t *testing.T) {
		admin := new(MockTopicAdmin)
		admin.On("ReadPartitions", []string{"batches"}).Return(nil, errors.New("unknown topic"))
		admin.On("CreateTopics", mock.Anything).Return(errors.New("not controller")).Once()

		err := createTopicIfNotExists(admin, "batches", 2, 1, logger, 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create kafka topic batches")
	})
}
