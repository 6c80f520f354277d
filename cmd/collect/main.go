package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/couchcryptid/bmc-ecology-pipeline/internal/adapter/edi"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/adapter/gbif"
	httpadapter "github.com/couchcryptid/bmc-ecology-pipeline/internal/adapter/http"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/adapter/inaturalist"
	kafkaadapter "github.com/couchcryptid/bmc-ecology-pipeline/internal/adapter/kafka"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/adapter/openmeteo"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/artifact"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/builder"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/config"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/fetch"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/merge"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/observability"
	"github.com/couchcryptid/bmc-ecology-pipeline/internal/pipeline"
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
	logger.Info("collection run starting",
		"run_id", runID,
		"location", cfg.LocationName,
		"period", cfg.Period())

	processed := artifact.NewStore(cfg.ProcessedDataDir)
	output := artifact.NewStore(cfg.OutputDir)

	// Occurrence publishing is feature-flagged via ECOLOGY_KAFKA_BROKERS.
	var publisher fetch.OccurrencePublisher
	var kafkaWriter *kafkaadapter.Writer
	if cfg.KafkaEnabled() {
		kafkaWriter = kafkaadapter.NewWriter(cfg, logger)
		publisher = kafkaWriter
		metrics.PublishEnabled.Set(1)
		logger.Info("occurrence publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		metrics.PublishEnabled.Set(0)
		logger.Info("occurrence publishing disabled")
	}

	gbifClient := gbif.NewClient(cfg, logger, metrics)
	inatClient := inaturalist.NewClient(cfg, logger, metrics)
	meteoClient := openmeteo.NewClient(cfg, logger, metrics)
	ediClient := edi.NewClient(cfg, logger, metrics)

	stages := []pipeline.Stage{
		fetch.NewWeatherStage(cfg, meteoClient, processed, logger, metrics, runID),
		fetch.NewBiodiversityStage(cfg, gbifClient, publisher, processed, logger, metrics, runID),
		fetch.NewSpecimensStage(cfg, gbifClient, publisher, processed, logger, metrics, runID),
		fetch.NewBaselineStage(cfg, inatClient, processed, logger, metrics, runID),
		fetch.NewCoweetaStage(cfg, ediClient, processed, logger, metrics, runID),
		builder.NewChestnutStage(cfg, processed, logger, metrics, runID),
		builder.NewPesticideStage(cfg, processed, logger, metrics, runID),
		builder.NewCalendarStage(cfg, processed, logger, metrics, runID),
		merge.NewMergeStage(cfg, processed, output, logger, metrics, runID),
	}

	p := pipeline.New(stages, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, processed, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	// A batch run ends on its own; a signal ends it early.
	select {
	case <-done:
		logger.Info("collection run finished", "run_id", runID)
	case <-ctx.Done():
		logger.Info("shutting down")
		<-done
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
