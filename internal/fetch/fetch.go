// Package fetch contains the collection stages that pull data from external
// sources and write processed JSON artifacts. Each stage is independent: a
// stage that fails leaves its artifact unwritten and the run continues, so
// one flaky source never blocks the rest of the dataset.
package fetch

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/bmc-ecology-pipeline/internal/artifact"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/domain"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/observability"
)

// OccurrencePublisher pushes normalized occurrence records to an optional
// downstream topic. A nil publisher disables publishing.
type OccurrencePublisher interface {
	PublishBatch(ctx context.Context, occurrences []domain.Occurrence, fetchedAt time.Time) error
}

// writeArtifact persists one processed artifact and records its size.
func writeArtifact(store *artifact.Store, metrics *observability.Metrics, logger *slog.Logger, name string, v any) error {
	n, err := store.Write(name, v)
	if err != nil {
		return err
	}
	metrics.ArtifactsWritten.Inc()
	metrics.ArtifactBytes.Observe(float64(n))
	logger.Info("artifact written", "name", name, "bytes", n)
	return nil
}
