package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/gartstein/directory/internal/directory/models"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// MockKafkaWriter implements KafkaWriter for testing
type MockKafkaWriter struct {
	mock.Mock
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockKafkaWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

// blockingWriter never returns from WriteMessages until released.
type blockingWriter struct {
	release chan struct{}
	mu      sync.Mutex
	written []kafka.Message
}

func (w *blockingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	<-w.release
	w.mu.Lock()
	defer w.mu.Unlock()
	w.written = append(w.written, msgs...)
	return nil
}

func (w *blockingWriter) Close() error { return nil }

func TestProducer_DeliversOnClose(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(nil).Twice()
	mockWriter.On("Close").Return(nil).Once()

	producer := newProducer(mockWriter, zaptest.NewLogger(t), 10)
	producer.Produce(NewCatalogEvent(12))
	producer.Produce(NewQueryEvent(QueryDetails{Filter: models.DefaultFilter(), Sort: models.DefaultSort(), Page: 1, PageSize: 6, TotalItems: 12}))
	producer.Close()

	mockWriter.AssertExpectations(t)
}

func TestProducer_DropsWhenQueueFull(t *testing.T) {
	core, recorded := observer.New(zap.WarnLevel)
	writer := &blockingWriter{release: make(chan struct{})}
	producer := newProducer(writer, zap.New(core), 1)

	// The loop may pick up the first event and block in the writer; two more
	// are enough to overflow a buffer of one either way.
	producer.Produce(NewCatalogEvent(1))
	producer.Produce(NewCatalogEvent(2))
	producer.Produce(NewCatalogEvent(3))

	assert.GreaterOrEqual(t, recorded.FilterMessage("Kafka producer queue full, dropping event").Len(), 1)

	close(writer.release)
	producer.Close()
}

func TestProducer_SendEvent(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	producer := &Producer{writer: mockWriter, logger: zaptest.NewLogger(t)}
	event := NewQueryEvent(QueryDetails{Filter: models.DefaultFilter(), Sort: models.DefaultSort(), Page: 2, PageSize: 6, TotalItems: 9})

	mockWriter.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafka.Message) bool {
		if len(msgs) != 1 || string(msgs[0].Key) != string(QueryExecuted) {
			return false
		}
		var decoded Event
		if err := json.Unmarshal(msgs[0].Value, &decoded); err != nil {
			return false
		}
		return decoded.ID == event.ID && decoded.Query != nil && decoded.Query.TotalItems == 9
	})).Return(nil).Once()

	producer.sendEvent(context.Background(), event)
	mockWriter.AssertExpectations(t)
}

func TestProducer_SendEventErrors(t *testing.T) {
	t.Run("write error is logged", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		mockWriter := new(MockKafkaWriter)
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()
		producer := &Producer{writer: mockWriter, logger: zap.New(core)}

		producer.sendEvent(context.Background(), NewCatalogEvent(12))

		assert.Equal(t, 1, recorded.FilterMessage("Failed to produce event").Len())
	})

	t.Run("marshal error is logged", func(t *testing.T) {
		orig := jsonMarshal
		jsonMarshal = func(any) ([]byte, error) { return nil, errors.New("marshal failed") }
		defer func() { jsonMarshal = orig }()

		core, recorded := observer.New(zap.ErrorLevel)
		mockWriter := new(MockKafkaWriter)
		producer := &Producer{writer: mockWriter, logger: zap.New(core)}

		producer.sendEvent(context.Background(), NewCatalogEvent(12))

		assert.Equal(t, 1, recorded.FilterMessage("Failed to serialize event").Len())
		mockWriter.AssertNotCalled(t, "WriteMessages", mock.Anything, mock.Anything)
	})
}

func TestEventJSON(t *testing.T) {
	event := NewCatalogEvent(12)
	raw, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded Event
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, CatalogReloaded, decoded.Type)
	require.NotNil(t, decoded.Catalog)
	assert.Equal(t, 12, decoded.Catalog.Companies)
	assert.Nil(t, decoded.Query)
}

func TestNopProducer(t *testing.T) {
	var p NopProducer
	p.Produce(NewCatalogEvent(1))
	p.Close()
}
