//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/rooftopdata/solar-survey/internal/adapter/kafka"
	"github.com/rooftopdata/solar-survey/internal/collector"
	"github.com/rooftopdata/solar-survey/internal/config"
	"github.com/rooftopdata/solar-survey/internal/domain"
	"github.com/rooftopdata/solar-survey/internal/observability"
	"github.com/rooftopdata/solar-survey/internal/pipeline"
	"github.com/rooftopdata/solar-survey/internal/region"
)

const testTopic = "test-solar-survey-records"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka launches a single-broker Kafka container and returns its
// bootstrap address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("test-cluster"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve kafka brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "resolve controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// receivedRecord holds a deserialized message read from the record topic.
type receivedRecord struct {
	Record  domain.PropertyRecord
	Key     string
	Headers map[string]string
}

func readRecord(ctx context.Context, t *testing.T, consumer *kafkago.Reader) receivedRecord {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from record topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var record domain.PropertyRecord
	require.NoError(t, json.Unmarshal(msg.Value, &record), "unmarshal record message")

	return receivedRecord{
		Record:  record,
		Key:     string(msg.Key),
		Headers: headers,
	}
}

// TestSurveyPublishesToKafka runs a full synthetic survey with the Kafka
// publisher as a sink against a real broker and verifies every emitted record
// arrives well formed.
func TestSurveyPublishesToKafka(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	const maxProperties = 12

	cfg := &config.Config{
		KafkaBrokers: []string{broker},
		KafkaTopic:   testTopic,
	}

	catalog, err := region.DefaultCatalog()
	require.NoError(t, err)
	reg := catalog.Resolve("New Orleans")

	metrics := observability.NewMetricsForTesting()
	provider := region.NewSyntheticProvider(reg)
	col := collector.New(reg, maxProperties, provider, nil, discardLogger(), metrics)

	publisher := kafka.NewPublisher(cfg, discardLogger())
	p := pipeline.New(col, pipeline.NewBuilder(1), []pipeline.BatchSink{publisher},
		discardLogger(), metrics, 5)

	require.NoError(t, p.Run(ctx))
	assert.Equal(t, int64(maxProperties), p.Emitted())

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	received := make([]receivedRecord, 0, maxProperties)
	for len(received) < maxProperties {
		received = append(received, readRecord(ctx, t, consumer))
	}

	seenIDs := make(map[int]bool, maxProperties)
	for _, rr := range received {
		r := rr.Record

		assert.Equal(t, strconv.Itoa(r.PropertyID), rr.Key)
		assert.NotEmpty(t, rr.Headers["category"])
		_, err := time.Parse(time.RFC3339, rr.Headers["processed_at"])
		assert.NoError(t, err, "processed_at should be valid RFC3339")

		assert.False(t, seenIDs[r.PropertyID], "duplicate property id %d", r.PropertyID)
		seenIDs[r.PropertyID] = true

		assert.NotEmpty(t, r.OwnerName)
		assert.NotEmpty(t, r.Address)
		assert.GreaterOrEqual(t, r.SolarPotentialScore, 0)
		assert.LessOrEqual(t, r.SolarPotentialScore, 100)
		if r.HasSolarPanels {
			assert.Equal(t, 100, r.SolarPotentialScore)
		}
		if r.SystemSizeKW <= 0 {
			assert.Zero(t, r.ROIPercentage)
		}
	}

	// Contiguous IDs starting at 1.
	for id := 1; id <= maxProperties; id++ {
		assert.True(t, seenIDs[id], "missing property id %d", id)
	}

	// The New Orleans seed with verified panels must be in the output.
	var foundSeed bool
	for _, rr := range received {
		if rr.Record.Address != "1234 Magazine St, New Orleans, LA 70130" {
			continue
		}
		foundSeed = true
		assert.True(t, rr.Record.HasSolarPanels)
		assert.Equal(t, domain.CategoryExistingSolar, rr.Headers["category"])
		break
	}
	assert.True(t, foundSeed, "expected verified Dauphine St seed in output")
}
