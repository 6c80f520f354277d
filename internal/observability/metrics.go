package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// collection pipeline.
type Metrics struct {
	PipelineRunning prometheus.Gauge

	// Stage metrics. Labels: stage={weather,biodiversity,specimens,baseline,
	// coweeta,chestnut,pesticide,calendar,merge}, outcome={success,error}.
	StageRuns     *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec

	// Source fetch metrics. Labels: source={gbif,inaturalist,openmeteo,edi}.
	PagesFetched   *prometheus.CounterVec
	RecordsFetched *prometheus.CounterVec
	FetchErrors    *prometheus.CounterVec
	DedupDropped   *prometheus.CounterVec

	// Artifact metrics.
	ArtifactsWritten prometheus.Counter
	ArtifactBytes    prometheus.Histogram

	// Occurrence publishing metrics.
	OccurrencesPublished prometheus.Counter
	PublishEnabled       prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.PipelineRunning,
		m.StageRuns,
		m.StageDuration,
		m.PagesFetched,
		m.RecordsFetched,
		m.FetchErrors,
		m.DedupDropped,
		m.ArtifactsWritten,
		m.ArtifactBytes,
		m.OccurrencesPublished,
		m.PublishEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bmc_ecology",
			Name:      "pipeline_running",
			Help:      "1 when the collection pipeline is active, 0 when shut down.",
		}),
		StageRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bmc_ecology",
			Name:      "stage_runs_total",
			Help:      "Stage executions by stage name and outcome.",
		}, []string{"stage", "outcome"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bmc_ecology",
			Name:      "stage_duration_seconds",
			Help:      "Duration of one stage run.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}, []string{"stage"}),
		PagesFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bmc_ecology",
			Name:      "pages_fetched_total",
			Help:      "Pages retrieved from external sources.",
		}, []string{"source"}),
		RecordsFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bmc_ecology",
			Name:      "records_fetched_total",
			Help:      "Records retrieved from external sources.",
		}, []string{"source"}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bmc_ecology",
			Name:      "fetch_errors_total",
			Help:      "Transport or decode failures that ended a fetch loop early.",
		}, []string{"source"}),
		DedupDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bmc_ecology",
			Name:      "dedup_dropped_total",
			Help:      "Records dropped because their identifier was already seen.",
		}, []string{"source"}),
		ArtifactsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bmc_ecology",
			Name:      "artifacts_written_total",
			Help:      "Processed JSON artifacts written to disk.",
		}),
		ArtifactBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bmc_ecology",
			Name:      "artifact_bytes",
			Help:      "Size of written artifacts in bytes.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		}),
		OccurrencesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bmc_ecology",
			Name:      "occurrences_published_total",
			Help:      "Occurrence records published to the optional Kafka topic.",
		}),
		PublishEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bmc_ecology",
			Name:      "publish_enabled",
			Help:      "1 when occurrence publishing is enabled, 0 otherwise.",
		}),
	}
}
