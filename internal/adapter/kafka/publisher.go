// Package kafka publishes finished property records to a Kafka topic so
// downstream consumers (CRM imports, lead scoring) can pick them up.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/rooftopdata/solar-survey/internal/config"
	"github.com/rooftopdata/solar-survey/internal/domain"
)

// Publisher produces property records to a Kafka topic.
// It implements pipeline.BatchSink.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured record topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// WriteBatch serializes and publishes a batch of records in a single
// WriteMessages call.
func (p *Publisher) WriteBatch(ctx context.Context, records []domain.PropertyRecord) error {
	if len(records) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(records))
	for i := range records {
		msg, err := serializeToMessage(records[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return p.writer.WriteMessages(ctx, msgs...)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a PropertyRecord into a Kafka message keyed by
// property ID.
func serializeToMessage(record domain.PropertyRecord) (kafkago.Message, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize property record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(strconv.Itoa(record.PropertyID)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "category", Value: []byte(record.Category())},
			{Key: "processed_at", Value: []byte(record.ProcessedAt.Format(time.RFC3339))},
		},
	}, nil
}
