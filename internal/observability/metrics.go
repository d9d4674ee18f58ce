// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Ingestion metrics
	TripsLoaded       prometheus.Counter
	TripRowsRejected  *prometheus.CounterVec
	IngestionDuration prometheus.Histogram

	// Pipeline metrics
	PipelineRunsTotal prometheus.Counter
	EventsCleaned     prometheus.Gauge
	OutliersRemoved   prometheus.Gauge
	FeatureRowsBuilt  prometheus.Gauge
	PipelineDuration  prometheus.Histogram

	// Backfill metrics
	BackfillDaysProcessed *prometheus.CounterVec
	ReportDuration        prometheus.Histogram
	DriftedColumns        prometheus.Gauge

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "bike_stock_lab"
	}

	return &Metrics{
		// Ingestion metrics
		TripsLoaded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "trips_loaded_total",
			Help:      "Total number of trip rows loaded from source files",
		}),
		TripRowsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "trip_rows_rejected_total",
			Help:      "Total number of trip rows rejected by reason",
		}, []string{"reason"}),
		IngestionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "duration_seconds",
			Help:      "Trip file ingestion duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		}),

		// Pipeline metrics
		PipelineRunsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of reconstruction pipeline runs",
		}),
		EventsCleaned: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "events_cleaned",
			Help:      "Number of events surviving cleaning in the last run",
		}),
		OutliersRemoved: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "outliers_removed",
			Help:      "Number of duration outliers removed in the last run",
		}),
		FeatureRowsBuilt: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "feature_rows_built",
			Help:      "Number of feature rows produced by the last run",
		}),
		PipelineDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Pipeline execution duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),

		// Backfill metrics
		BackfillDaysProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backfill",
			Name:      "days_processed_total",
			Help:      "Total number of backfill days processed by mode",
		}, []string{"mode"}),
		ReportDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "backfill",
			Name:      "report_duration_seconds",
			Help:      "Monitoring report generation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		DriftedColumns: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "backfill",
			Name:      "drifted_columns",
			Help:      "Number of drifted columns in the most recent report",
		}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordDBQuery records database query metrics.
func (m *Metrics) RecordDBQuery(database, operation string, seconds float64, err error) {
	m.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		m.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
