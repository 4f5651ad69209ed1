package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the survey pipeline.
type Metrics struct {
	PropertiesSurveyed prometheus.Counter
	RecordsEmitted     prometheus.Counter
	DataGaps           *prometheus.CounterVec // labels: kind={owner,solar,imagery}
	PipelineRunning    prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Provider metrics.
	ProviderRequests    *prometheus.CounterVec // labels: outcome={success,error,no_coverage}
	ProviderCache       *prometheus.CounterVec // labels: result={hit,miss}
	ProviderAPIDuration prometheus.Histogram

	// Imagery metrics.
	ImageryDownloads *prometheus.CounterVec // labels: outcome={success,error,disabled}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		PropertiesSurveyed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "solar_survey",
			Name:      "properties_surveyed_total",
			Help:      "Total candidate properties pulled from the collector.",
		}),
		RecordsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "solar_survey",
			Name:      "records_emitted_total",
			Help:      "Total enriched records written to the sinks.",
		}),
		DataGaps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "solar_survey",
			Name:      "data_gaps_total",
			Help:      "Per-record data gaps recovered via defaults, by kind.",
		}, []string{"kind"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "solar_survey",
			Name:      "pipeline_running",
			Help:      "1 while the survey is active, 0 when finished.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "solar_survey",
			Name:      "batch_size",
			Help:      "Number of lookups per extracted batch.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "solar_survey",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete extract-build-write cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "solar_survey",
			Name:      "provider_requests_total",
			Help:      "Solar-data provider lookups by outcome.",
		}, []string{"outcome"}),
		ProviderCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "solar_survey",
			Name:      "provider_cache_total",
			Help:      "Provider cache lookups by result.",
		}, []string{"result"}),
		ProviderAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "solar_survey",
			Name:      "provider_api_duration_seconds",
			Help:      "Provider API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		ImageryDownloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "solar_survey",
			Name:      "imagery_downloads_total",
			Help:      "Aerial image downloads by outcome.",
		}, []string{"outcome"}),
	}

	prometheus.MustRegister(
		m.PropertiesSurveyed,
		m.RecordsEmitted,
		m.DataGaps,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.ProviderRequests,
		m.ProviderCache,
		m.ProviderAPIDuration,
		m.ImageryDownloads,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		PropertiesSurveyed:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "solar_survey", Name: "properties_surveyed_total"}),
		RecordsEmitted:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "solar_survey", Name: "records_emitted_total"}),
		DataGaps:                prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "solar_survey", Name: "data_gaps_total"}, []string{"kind"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "solar_survey", Name: "pipeline_running"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "solar_survey", Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "solar_survey", Name: "batch_processing_duration_seconds"}),
		ProviderRequests:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "solar_survey", Name: "provider_requests_total"}, []string{"outcome"}),
		ProviderCache:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "solar_survey", Name: "provider_cache_total"}, []string{"result"}),
		ProviderAPIDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "solar_survey", Name: "provider_api_duration_seconds"}),
		ImageryDownloads:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "solar_survey", Name: "imagery_downloads_total"}, []string{"outcome"}),
	}
}
