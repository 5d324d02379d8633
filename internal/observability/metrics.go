// Package observability provides Prometheus metrics for the application.
package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all the metric collectors for the application.
type Metrics struct {
	registry *prometheus.Registry

	predictionsTotal      *prometheus.CounterVec
	predictorDuration     *prometheus.HistogramVec
	predictorErrorsTotal  *prometheus.CounterVec
	validationFailedTotal prometheus.Counter
	storeWritesTotal      *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with its own registry.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		predictionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "toxpred_predictions_total",
			Help: "Total number of persisted predictions by model and label.",
		}, []string{"model", "label"}),
		predictorDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "toxpred_predictor_duration_seconds",
			Help:    "Duration of external predictor invocations.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}, []string{"model"}),
		predictorErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "toxpred_predictor_errors_total",
			Help: "Total number of failed external predictor invocations.",
		}, []string{"model"}),
		validationFailedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "toxpred_validation_failures_total",
			Help: "Total number of requests rejected by sequence validation.",
		}),
		storeWritesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "toxpred_store_writes_total",
			Help: "Total number of datastore write operations by outcome.",
		}, []string{"outcome"}),
	}

	collectors := []prometheus.Collector{
		m.predictionsTotal,
		m.predictorDuration,
		m.predictorErrorsTotal,
		m.validationFailedTotal,
		m.storeWritesTotal,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}

	return m, nil
}

// Handler returns an HTTP handler serving the metrics registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// IncPrediction counts one persisted prediction.
func (m *Metrics) IncPrediction(model, label string) {
	m.predictionsTotal.WithLabelValues(model, label).Inc()
}

// ObservePredictorCall records the duration and outcome of one predictor invocation.
func (m *Metrics) ObservePredictorCall(model string, duration time.Duration, err error) {
	m.predictorDuration.WithLabelValues(model).Observe(duration.Seconds())
	if err != nil {
		m.predictorErrorsTotal.WithLabelValues(model).Inc()
	}
}

// IncValidationFailure counts one request rejected by sequence validation.
func (m *Metrics) IncValidationFailure() {
	m.validationFailedTotal.Inc()
}

// IncStoreWrite counts one datastore write by outcome ("success" or "error").
func (m *Metrics) IncStoreWrite(outcome string) {
	m.storeWritesTotal.WithLabelValues(outcome).Inc()
}
