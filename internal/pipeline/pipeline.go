// Package pipeline runs the collection stages in order. Stages are
// independent: one stage failing is recorded and logged but does not stop
// the ones after it, since each writes its own artifact and the merge
// degrades gracefully around whatever is missing.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/bmc-ecology-pipeline/internal/observability"
)

// Stage is one unit of the collection run, producing an artifact.
type Stage interface {
	Name() string
	Run(ctx context.Context) error
}

// Pipeline executes its stages sequentially.
type Pipeline struct {
	stages  []Stage
	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool
}

// New creates a Pipeline over the given stages.
func New(stages []Stage, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{stages: stages, logger: logger, metrics: metrics}
}

// CheckReadiness returns nil once at least one stage has completed, or an
// error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no stage completed yet")
	}
	return nil
}

// Run executes every stage in order and returns the errors of the stages
// that failed, joined. Context cancellation stops the run before the next
// stage starts.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "stages", len(p.stages))
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	var errs []error
	for _, stage := range p.stages {
		if ctx.Err() != nil {
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			errs = append(errs, ctx.Err())
			break
		}

		start := time.Now()
		err := stage.Run(ctx)
		elapsed := time.Since(start)
		p.metrics.StageDuration.WithLabelValues(stage.Name()).Observe(elapsed.Seconds())

		if err != nil {
			p.metrics.StageRuns.WithLabelValues(stage.Name(), "error").Inc()
			p.logger.Error("stage failed", "stage", stage.Name(), "duration", elapsed, "error", err)
			errs = append(errs, err)
			continue
		}

		p.metrics.StageRuns.WithLabelValues(stage.Name(), "success").Inc()
		p.logger.Info("stage completed", "stage", stage.Name(), "duration", elapsed)
		p.ready.Store(true)
	}

	if len(errs) > 0 {
		p.logger.Warn("pipeline finished with failures", "failed", len(errs), "total", len(p.stages))
		return errors.Join(errs...)
	}
	p.logger.Info("pipeline finished", "stages", len(p.stages))
	return nil
}
