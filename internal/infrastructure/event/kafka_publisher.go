package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bakery/backend/internal/domain/shared"
	"github.com/bakery/backend/internal/infrastructure/config"
	"github.com/bakery/backend/internal/infrastructure/resilience"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

const defaultWriteTimeout = 5 * time.Second

// messageWriter is the subset of kafka.Writer the publisher needs
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisherOption configures a KafkaPublisher
type KafkaPublisherOption func(*KafkaPublisher)

// WithBreaker guards writes with a circuit breaker
func WithBreaker(cb *resilience.CircuitBreaker) KafkaPublisherOption {
	return func(p *KafkaPublisher) {
		p.breaker = cb
	}
}

// WithPublishObserver is called once per event with the outcome
func WithPublishObserver(fn func(eventType string, success bool)) KafkaPublisherOption {
	return func(p *KafkaPublisher) {
		p.observe = fn
	}
}

// withWriter replaces the kafka writer, for tests
func withWriter(w messageWriter) KafkaPublisherOption {
	return func(p *KafkaPublisher) {
		p.writer = w
	}
}

// KafkaPublisher writes domain events to one topic, keyed by aggregate id so
// the events of an aggregate stay ordered within a partition.
type KafkaPublisher struct {
	writer       messageWriter
	topic        string
	writeTimeout time.Duration
	breaker      *resilience.CircuitBreaker
	observe      func(eventType string, success bool)
	logger       *zap.Logger
}

// NewKafkaPublisher creates a publisher for cfg.Topic
func NewKafkaPublisher(cfg *config.KafkaConfig, logger *zap.Logger, opts ...KafkaPublisherOption) (*KafkaPublisher, error) {
	if cfg == nil || len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka topic is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &KafkaPublisher{
		topic:        cfg.Topic,
		writeTimeout: cfg.WriteTimeout,
		logger:       logger.Named("kafka"),
	}
	if p.writeTimeout <= 0 {
		p.writeTimeout = defaultWriteTimeout
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.writer == nil {
		p.writer = &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
			WriteTimeout: p.writeTimeout,
			Async:        false,
		}
	}
	return p, nil
}

// Publish writes events as one batch
func (p *KafkaPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		msg, err := p.buildMessage(ctx, event)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	write := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, p.writeTimeout)
		defer cancel()
		return p.writer.WriteMessages(ctx, msgs...)
	}
	var err error
	if p.breaker != nil {
		err = p.breaker.Execute(ctx, write)
	} else {
		err = write(ctx)
	}

	for _, event := range events {
		if p.observe != nil {
			p.observe(event.EventType(), err == nil)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to publish %d events to topic %s: %w", len(events), p.topic, err)
	}
	p.logger.Debug("Events published", zap.String("topic", p.topic), zap.Int("count", len(events)))
	return nil
}

// Handle lets the publisher subscribe to the in-memory bus
func (p *KafkaPublisher) Handle(ctx context.Context, event shared.DomainEvent) error {
	return p.Publish(ctx, event)
}

func (p *KafkaPublisher) buildMessage(ctx context.Context, event shared.DomainEvent) (kafka.Message, error) {
	data, err := Serialize(event)
	if err != nil {
		return kafka.Message{}, err
	}
	msg := kafka.Message{
		Key:   []byte(event.AggregateID().String()),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event-id", Value: []byte(event.EventID().String())},
			{Key: "event-type", Value: []byte(event.EventType())},
			{Key: "aggregate-type", Value: []byte(event.AggregateType())},
			{Key: "tenant-id", Value: []byte(event.TenantID().String())},
			{Key: "content-type", Value: []byte("application/json")},
		},
		Time: event.OccurredAt(),
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for _, key := range carrier.Keys() {
		msg.Headers = append(msg.Headers, kafka.Header{Key: key, Value: []byte(carrier.Get(key))})
	}
	return msg, nil
}

// Close flushes and closes the writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

var (
	_ shared.EventPublisher = (*KafkaPublisher)(nil)
	_ Handler               = (*KafkaPublisher)(nil)
)
