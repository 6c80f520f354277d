// Package builder contains the compilation stages that produce artifacts
// from curated historical tables rather than live sources. They run in the
// same pipeline as the fetch stages but never touch the network.
package builder

import (
	"log/slog"

	"github.com/couchcryptid/bmc-ecology-pipeline/internal/artifact"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/observability"
)

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
