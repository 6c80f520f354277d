// Command merge assembles the final combined dataset from whatever
// processed artifacts exist, without re-running collection. Useful after
// editing a curated artifact by hand or dropping in a new one.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/couchcryptid/bmc-ecology-pipeline/internal/artifact"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/config"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/merge"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	runID := uuid.NewString()

	processed := artifact.NewStore(cfg.ProcessedDataDir)
	output := artifact.NewStore(cfg.OutputDir)

	stage := merge.NewMergeStage(cfg, processed, output, logger, metrics, runID)
	if err := stage.Run(context.Background()); err != nil {
		logger.Error("merge failed", "error", err)
		os.Exit(1)
	}
}
