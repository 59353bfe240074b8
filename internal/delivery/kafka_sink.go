package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/alembic-io/alembic/internal/queue"
)

// KafkaSink publishes drained records to a Kafka topic, one message per
// record keyed by fingerprint so codex consumers can compact by content.
type KafkaSink struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// NewKafkaSink creates the Kafka transport for the given delivery config.
// Returns nil when no brokers or topic are configured.
func NewKafkaSink(cfg *Config, logger *slog.Logger) *KafkaSink {
	if !cfg.KafkaConfigured() {
		return nil
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	return &KafkaSink{writer: writer, logger: logger}
}

// Name implements Sink.
func (s *KafkaSink) Name() string { return "kafka" }

// Deliver implements Sink.
func (s *KafkaSink) Deliver(ctx context.Context, batch []queue.Entry) error {
	messages := make([]kafka.Message, 0, len(batch))

	for _, entry := range batch {
		value, err := json.Marshal(entry.Record)
		if err != nil {
			return fmt.Errorf("serialize record %s: %w", entry.Fingerprint, err)
		}

		messages = append(messages, kafka.Message{
			Key:   []byte(entry.Fingerprint),
			Value: value,
		})
	}

	if err := s.writer.WriteMessages(ctx, messages...); err != nil {
		return fmt.Errorf("write %d records to %s: %w", len(batch), s.writer.Topic, err)
	}

	s.logger.Debug("Batch delivered",
		slog.String("sink", s.Name()),
		slog.String("topic", s.writer.Topic),
		slog.Int("records", len(batch)),
	)

	return nil
}

// Close releases the underlying Kafka writer.
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
