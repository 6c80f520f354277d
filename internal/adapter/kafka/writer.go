// Package kafka publishes normalized occurrence records to an optional
// Kafka topic. Publishing is a side channel: artifacts are written the same
// way whether or not a broker is configured.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/bmc-ecology-pipeline/internal/config"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/domain"
)

// Writer produces occurrence messages to the configured topic.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the occurrence topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishBatch serializes and publishes a batch of occurrences in a single
// WriteMessages call.
func (w *Writer) PublishBatch(ctx context.Context, occurrences []domain.Occurrence, fetchedAt time.Time) error {
	if len(occurrences) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(occurrences))
	for i := range occurrences {
		msg, err := serializeToMessage(occurrences[i], fetchedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish occurrences: %w", err)
	}
	w.logger.Debug("occurrences published", "count", len(occurrences))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an Occurrence into a Kafka message keyed by
// its source record identifier.
func serializeToMessage(occ domain.Occurrence, fetchedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(occ)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize occurrence: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(strconv.FormatInt(occ.SourceKey, 10)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "taxon_group", Value: []byte(occ.TaxonGroup)},
			{Key: "fetched_at", Value: []byte(fetchedAt.Format(time.RFC3339))},
		},
	}, nil
}
