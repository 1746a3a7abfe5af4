package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements the domain Metrics interface using Prometheus.
type Recorder struct {
	cacheEvents    *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	fallbacksTotal prometheus.Counter
	genLatency     *prometheus.HistogramVec
	predictedPrice *prometheus.GaugeVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		cacheEvents: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_prediction_cache_events_total",
				Help: "Prediction cache lookups by result",
			},
			[]string{"result", "symbol"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		fallbacksTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "stockpulse_explanation_fallbacks_total",
				Help: "Explanations produced by the deterministic fallback",
			},
		),
		genLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockpulse_prediction_generation_seconds",
				Help:    "End-to-end prediction generation latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"symbol"},
		),
		predictedPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockpulse_predicted_price",
				Help: "Last predicted price per symbol and horizon",
			},
			[]string{"symbol", "horizon"},
		),
	}
}

// RecordCacheHit records a fresh prediction served from the store.
func (r *Recorder) RecordCacheHit(symbol string) {
	r.cacheEvents.WithLabelValues("hit", symbol).Inc()
}

// RecordCacheMiss records a miss or stale lookup that forced a recompute.
func (r *Recorder) RecordCacheMiss(symbol string) {
	r.cacheEvents.WithLabelValues("miss", symbol).Inc()
}

// RecordGenerationLatency records end-to-end generation latency in seconds.
func (r *Recorder) RecordGenerationLatency(symbol string, seconds float64) {
	r.genLatency.WithLabelValues(symbol).Observe(seconds)
}

// RecordDelegateFallback records a deterministic explanation fallback.
func (r *Recorder) RecordDelegateFallback() {
	r.fallbacksTotal.Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordPredictedPrice records the latest projection for a horizon.
func (r *Recorder) RecordPredictedPrice(symbol, horizon string, price float64) {
	r.predictedPrice.WithLabelValues(symbol, horizon).Set(price)
}
