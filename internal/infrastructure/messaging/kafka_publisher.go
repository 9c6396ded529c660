package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mobilepay_ledger/internal/usecase/interfaces"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes ledger events keyed by intent id, so every event of
// one intent lands on the same partition in order.
type KafkaPublisher struct {
	writer       messageWriter
	topic        string
	writeTimeout time.Duration
	logger       *zap.Logger
}

var _ interfaces.ILedgerEventPublisher = (*KafkaPublisher)(nil)

func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		Logger:       kafka.LoggerFunc(func(msg string, args ...interface{}) { logger.Debug(fmt.Sprintf(msg, args...)) }),
		ErrorLogger:  kafka.LoggerFunc(func(msg string, args ...interface{}) { logger.Error(fmt.Sprintf(msg, args...)) }),
	}
	return newKafkaPublisher(writer, topic, writer.WriteTimeout, logger)
}

func newKafkaPublisher(w messageWriter, topic string, timeout time.Duration, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer:       w,
		topic:        topic,
		writeTimeout: timeout,
		logger:       logger.With(zap.String("component", "kafka_publisher")),
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event interfaces.LedgerEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode ledger event: %w", err)
	}
	key := event.IntentID
	if key == "" {
		key = event.SubjectRef
	}

	writeCtx, cancel := context.WithTimeout(ctx, p.writeTimeout)
	defer cancel()

	err = p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("publish %s to %s: %w", event.Type, p.topic, err)
	}
	p.logger.Debug("ledger event published",
		zap.String("type", string(event.Type)),
		zap.String("key", key))
	return nil
}

func (p *KafkaPublisher) Close() error {
	if p.writer == nil {
		return nil
	}
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("close kafka writer: %w", err)
	}
	p.logger.Info("kafka publisher closed")
	return nil
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct {
	logger *zap.Logger
}

var _ interfaces.ILedgerEventPublisher = (*NoopPublisher)(nil)

func NewNoopPublisher(logger *zap.Logger) *NoopPublisher {
	return &NoopPublisher{logger: logger}
}

func (p *NoopPublisher) Publish(_ context.Context, event interfaces.LedgerEvent) error {
	p.logger.Debug("ledger event dropped, no broker configured",
		zap.String("type", string(event.Type)),
		zap.String("intent_id", event.IntentID))
	return nil
}

func (p *NoopPublisher) Close() error { return nil }
