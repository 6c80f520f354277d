//go:build integration

// Kafka round-trip tests against a real broker. Run with:
//
//	go test -tags integration ./internal/integration/...
package integration

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	kafkaadapter "github.com/couchcryptid/bmc-ecology-pipeline/internal/adapter/kafka"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/config"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/domain"
)

func startKafka(t *testing.T) []string {
	t.Helper()
	ctx := context.Background()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("ecology-test"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, container.Terminate(context.Background()))
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	return brokers
}

func TestWriter_PublishBatchRoundTrip(t *testing.T) {
	brokers := startKafka(t)
	topic := "ecology-occurrences-it"

	cfg := &config.Config{KafkaBrokers: brokers, KafkaTopic: topic}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	writer := kafkaadapter.NewWriter(cfg, logger)
	t.Cleanup(func() { writer.Close() })

	fetchedAt := time.Date(2026, time.August, 25, 12, 0, 0, 0, time.UTC)
	occurrences := []domain.Occurrence{
		{SourceKey: 101, Species: "Cardinalis cardinalis", Year: 1940, TaxonGroup: "birds"},
		{SourceKey: 102, Species: "Ursus americanus", Year: 1941, TaxonGroup: "mammals"},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	require.NoError(t, writer.PublishBatch(ctx, occurrences, fetchedAt))

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  "ecology-it-consumer",
		MinBytes: 1,
		MaxBytes: 1 << 20,
	})
	t.Cleanup(func() { reader.Close() })

	byKey := map[string]kafkago.Message{}
	for len(byKey) < len(occurrences) {
		msg, err := reader.ReadMessage(ctx)
		require.NoError(t, err)
		byKey[string(msg.Key)] = msg
	}

	msg, ok := byKey["101"]
	require.True(t, ok)

	var got domain.Occurrence
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "Cardinalis cardinalis", got.Species)
	assert.Equal(t, 1940, got.Year)

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "birds", headers["taxon_group"])
	assert.Equal(t, fetchedAt.Format(time.RFC3339), headers["fetched_at"])
}

func TestWriter_PublishEmptyBatchIsNoop(t *testing.T) {
	brokers := startKafka(t)

	cfg := &config.Config{KafkaBrokers: brokers, KafkaTopic: "ecology-empty-it"}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	writer := kafkaadapter.NewWriter(cfg, logger)
	t.Cleanup(func() { writer.Close() })

	require.NoError(t, writer.PublishBatch(context.Background(), nil, time.Now()))
}
