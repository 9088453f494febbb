package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/segmentio/kafka-go"
	"github.com/vncsmyrnk/escrutinio/internal/core/domain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaLogger publishes audit events as JSON. Events for the same station
// share a key so they land on one partition in order.
type KafkaLogger struct {
	writer messageWriter
	logger *slog.Logger
}

func NewKafkaLogger(brokers []string, topic string, logger *slog.Logger) *KafkaLogger {
	if logger == nil {
		logger = slog.Default()
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		Async:                  true,
		AllowAutoTopicCreation: true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Warn("failed to publish audit events", "count", len(messages), "error", err)
			}
		},
	}
	return &KafkaLogger{writer: writer, logger: logger}
}

func (k *KafkaLogger) Record(ctx context.Context, event domain.AuditEvent) {
	msg, err := eventMessage(event)
	if err != nil {
		k.logger.WarnContext(ctx, "failed to encode audit event", "action", event.Action, "error", err)
		return
	}
	if err := k.writer.WriteMessages(context.WithoutCancel(ctx), msg); err != nil {
		k.logger.WarnContext(ctx, "failed to publish audit event", "action", event.Action, "error", err)
	}
}

func (k *KafkaLogger) Close() error {
	return k.writer.Close()
}

func eventMessage(event domain.AuditEvent) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, err
	}

	key := event.Username
	if event.StationNumber != 0 {
		key = "mesa-" + strconv.Itoa(event.StationNumber)
	}

	return kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "action", Value: []byte(event.Action)},
		},
	}, nil
}
