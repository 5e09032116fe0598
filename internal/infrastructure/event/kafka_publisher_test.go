package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bakery/backend/internal/infrastructure/config"
	"github.com/bakery/backend/internal/infrastructure/resilience"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	batches [][]kafka.Message
	err     error
	closed  bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("write without deadline")
	}
	if w.err != nil {
		return w.err
	}
	w.batches = append(w.batches, msgs)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func headerValue(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func testKafkaConfig() *config.KafkaConfig {
	return &config.KafkaConfig{Enabled: true, Brokers: []string{"localhost:9092"}, Topic: "bakery.events"}
}

func TestNewKafkaPublisher_Validation(t *testing.T) {
	_, err := NewKafkaPublisher(nil, nil)
	assert.Error(t, err)

	_, err = NewKafkaPublisher(&config.KafkaConfig{Brokers: []string{"localhost:9092"}}, nil)
	assert.Error(t, err)

	p, err := NewKafkaPublisher(testKafkaConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, defaultWriteTimeout, p.writeTimeout)
	writer, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "bakery.events", writer.Topic)
}

func TestKafkaPublisher_Publish(t *testing.T) {
	writer := &fakeWriter{}
	var observed []string
	p, err := NewKafkaPublisher(testKafkaConfig(), nil,
		withWriter(writer),
		WithPublishObserver(func(eventType string, ok bool) {
			if ok {
				observed = append(observed, eventType)
			}
		}))
	require.NoError(t, err)

	tenantID := uuid.New()
	first := newTestEvent("OrderCreated", tenantID)
	second := newTestEvent("OrderStatusChanged", tenantID)
	require.NoError(t, p.Publish(context.Background(), first, second))

	require.Len(t, writer.batches, 1)
	msgs := writer.batches[0]
	require.Len(t, msgs, 2)
	assert.Equal(t, first.Aggregate.ID.String(), string(msgs[0].Key))
	assert.Equal(t, "OrderCreated", headerValue(msgs[0], "event-type"))
	assert.Equal(t, tenantID.String(), headerValue(msgs[0], "tenant-id"))
	assert.Equal(t, "application/json", headerValue(msgs[0], "content-type"))

	env, err := Deserialize(msgs[1].Value)
	require.NoError(t, err)
	assert.Equal(t, second.ID, env.ID)
	assert.Equal(t, []string{"OrderCreated", "OrderStatusChanged"}, observed)

	require.NoError(t, p.Publish(context.Background()))
	assert.Len(t, writer.batches, 1)

	require.NoError(t, p.Close())
	assert.True(t, writer.closed)
}

func TestKafkaPublisher_BreakerOpens(t *testing.T) {
	writer := &fakeWriter{err: errors.New("broker unreachable")}
	cfg := resilience.DefaultCircuitBreakerConfig("kafka")
	cfg.FailureThreshold = 2
	cfg.Timeout = time.Minute
	failures := 0
	p, err := NewKafkaPublisher(testKafkaConfig(), nil,
		withWriter(writer),
		WithBreaker(resilience.NewCircuitBreaker(cfg, nil)),
		WithPublishObserver(func(_ string, ok bool) {
			if !ok {
				failures++
			}
		}))
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		assert.Error(t, p.Publish(ctx, newTestEvent("OrderCreated", uuid.New())))
	}
	err = p.Handle(ctx, newTestEvent("OrderCreated", uuid.New()))
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, 3, failures)
}
