package events

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/SscSPs/posting_engine/internal/core/domain"
	portssvc "github.com/SscSPs/posting_engine/internal/core/ports/services"
	"github.com/segmentio/kafka-go"
)

// DefaultKafkaTopic is the topic used when none is configured.
const DefaultKafkaTopic = "ledger-events"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes ledger events to a Kafka topic, keyed by operation id
// so every event of one operation lands on the same partition.
type KafkaPublisher struct {
	writer messageWriter
	logger *slog.Logger
}

var _ portssvc.EventPublisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher creates an asynchronous writer on the given brokers.
// Publish returns once the message is queued; delivery failures are logged.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	if topic == "" {
		topic = DefaultKafkaTopic
	}
	if logger == nil {
		logger = slog.Default()
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		MaxAttempts:  3,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		Logger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Debug(fmt.Sprintf(msg, args...), slog.String("component", "kafka"))
		}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Error(fmt.Sprintf(msg, args...), slog.String("component", "kafka"))
		}),
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to deliver ledger events to Kafka",
					slog.Int("messages", len(messages)),
					slog.String("error", err.Error()))
			}
		},
	}
	return &KafkaPublisher{writer: writer, logger: logger}
}

func newEventMessage(event domain.LedgerEvent) (kafka.Message, error) {
	payload, err := encodeEvent(event)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(strconv.FormatInt(event.OperationID, 10)),
		Value: payload,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, event domain.LedgerEvent) error {
	msg, err := newEventMessage(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write event to kafka: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
