// Package observability provides Prometheus metrics for monitoring scoring runs.
package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// DefaultNamespace is used when NewMetrics gets an empty namespace.
const DefaultNamespace = "wallet_credit_score"

// Run status label values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Metrics holds all Prometheus metrics of the scoring pipeline.
type Metrics struct {
	// Input metrics
	TransactionsLoaded prometheus.Counter
	AmountErrors       *prometheus.CounterVec

	// Scoring metrics
	WalletsScored   prometheus.Counter
	FeaturesSkipped prometheus.Counter
	ScoreValues     prometheus.Histogram

	// Pipeline metrics
	RunsTotal     *prometheus.CounterVec
	RunDuration   prometheus.Histogram
	SinkPublishes *prometheus.CounterVec
	SinkDuration  *prometheus.HistogramVec

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a Metrics instance registered on reg.
// A nil reg creates unregistered collectors.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	factory := promauto.With(reg)

	return &Metrics{
		TransactionsLoaded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "input",
			Name:      "transactions_loaded_total",
			Help:      "Total number of transactions loaded from the source",
		}),
		AmountErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "input",
			Name:      "amount_errors_total",
			Help:      "Total number of transactions whose amount was coerced to zero, by reason",
		}, []string{"reason"}),

		WalletsScored: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "wallets_scored_total",
			Help:      "Total number of wallets scored",
		}),
		FeaturesSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "features_skipped_total",
			Help:      "Total number of weighted features absent from a batch",
		}),
		ScoreValues: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "score",
			Help:      "Distribution of published credit scores",
			Buckets:   prometheus.LinearBuckets(100, 100, 10),
		}),

		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs by status",
		}, []string{"status"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Pipeline execution duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		}),
		SinkPublishes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sink",
			Name:      "publishes_total",
			Help:      "Total number of sink publishes by sink and status",
		}, []string{"sink", "status"}),
		SinkDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sink",
			Name:      "publish_duration_seconds",
			Help:      "Sink publish duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"sink"}),

		LastSuccessfulRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last successful pipeline run",
		}),
	}
}

// RunStats is the per-run input to RecordRun.
type RunStats struct {
	Transactions     int
	MissingAmounts   int
	MalformedAmounts int
	Scores           []float64
	SkippedFeatures  int
	Duration         time.Duration
	FinishedAt       time.Time
	Err              error
}

// RecordRun records the outcome of one pipeline run.
// Failed runs only count towards RunsTotal and RunDuration.
func (m *Metrics) RecordRun(s RunStats) {
	m.RunDuration.Observe(s.Duration.Seconds())
	if s.Err != nil {
		m.RunsTotal.WithLabelValues(StatusFailure).Inc()
		return
	}
	m.RunsTotal.WithLabelValues(StatusSuccess).Inc()

	m.TransactionsLoaded.Add(float64(s.Transactions))
	m.AmountErrors.WithLabelValues("missing").Add(float64(s.MissingAmounts))
	m.AmountErrors.WithLabelValues("malformed").Add(float64(s.MalformedAmounts))
	m.WalletsScored.Add(float64(len(s.Scores)))
	m.FeaturesSkipped.Add(float64(s.SkippedFeatures))
	for _, v := range s.Scores {
		m.ScoreValues.Observe(v)
	}
	m.LastSuccessfulRun.Set(float64(s.FinishedAt.Unix()))
}

// RecordSink records one sink publish.
func (m *Metrics) RecordSink(sink string, d time.Duration, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusFailure
	}
	m.SinkPublishes.WithLabelValues(sink, status).Inc()
	m.SinkDuration.WithLabelValues(sink).Observe(d.Seconds())
}

// Push sends everything gathered by g to a Prometheus Pushgateway.
func Push(ctx context.Context, url, job string, g prometheus.Gatherer) error {
	if err := push.New(url, job).Gatherer(g).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
