// Package metrics exports batch matcher metrics to Prometheus.
//
//	matcher_pairs_total{outcome}          pairs finished, by outcome
//	matcher_batch_runs_total{result}      runs by ok / cancelled / error
//	matcher_batch_duration_seconds        run duration
//	matcher_batch_checkpoint_pair_index   last saved checkpoint
//	matcher_batch_last_success_timestamp  unix time of the last complete run
package metrics

import (
	"context"
	"errors"
	"net/http"

	"github.com/gdugdh24/devmatch-backend/internal/usecase/batch"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "matcher"

// BatchMetrics implements batch.Observer.
type BatchMetrics struct {
	registry *prometheus.Registry

	PairsTotal      *prometheus.CounterVec
	RunsTotal       *prometheus.CounterVec
	RunDuration     prometheus.Histogram
	CheckpointIndex prometheus.Gauge
	LastSuccess     prometheus.Gauge
}

// New registers the batch metrics, plus Go runtime and process collectors,
// on a fresh registry.
func New() *BatchMetrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &BatchMetrics{
		registry: reg,
		PairsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pairs_total",
				Help:      "Pairs finished by the batch runner, by outcome",
			},
			[]string{"outcome"},
		),
		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "batch_runs_total",
				Help:      "Batch runs by result",
			},
			[]string{"result"},
		),
		RunDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "batch_duration_seconds",
				Help:      "Duration of batch runs in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.1, 4, 10),
			},
		),
		CheckpointIndex: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "batch_checkpoint_pair_index",
				Help:      "Pair index of the last saved checkpoint",
			},
		),
		LastSuccess: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "batch_last_success_timestamp_seconds",
				Help:      "Unix time the last batch run completed",
			},
		),
	}
}

func (m *BatchMetrics) PairProcessed(outcome batch.Outcome) {
	m.PairsTotal.WithLabelValues(outcome.String()).Inc()
}

func (m *BatchMetrics) CheckpointSaved(pairIndex int64) {
	m.CheckpointIndex.Set(float64(pairIndex))
}

func (m *BatchMetrics) RunFinished(report *batch.Report, err error) {
	result := "ok"
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		result = "cancelled"
	case err != nil:
		result = "error"
	}
	m.RunsTotal.WithLabelValues(result).Inc()

	if report != nil {
		m.RunDuration.Observe(report.Duration.Seconds())
	}
	if err == nil {
		m.LastSuccess.SetToCurrentTime()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *BatchMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
