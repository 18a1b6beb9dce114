package lsh

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds model counters; a nil *Metrics records nothing
type Metrics struct {
	HashesComputed    prometheus.Counter
	DimensionMismatch prometheus.Counter
	TrainDuration     prometheus.Histogram
	DegenerateBits    prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg (if not nil)
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		HashesComputed: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "lsh_hashes_computed_total",
			Help: "Total number of vectors hashed by the lsh model",
		}),
		DimensionMismatch: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "lsh_dimension_mismatch_total",
			Help: "Total number of rejected vectors with wrong dimensionality",
		}),
		TrainDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "lsh_train_duration_seconds",
			Help:    "Time spent deriving hyperplanes from the sample corpus",
			Buckets: prometheus.DefBuckets,
		}),
		DegenerateBits: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "lsh_degenerate_bits",
			Help: "Number of hyperplanes with zero normal in the current model",
		}),
	}
}

func (m *Metrics) hashed() {
	if m == nil {
		return
	}
	m.HashesComputed.Inc()
}

func (m *Metrics) dimensionMismatch() {
	if m == nil {
		return
	}
	m.DimensionMismatch.Inc()
}

func (m *Metrics) trained(took time.Duration, degenerate int) {
	if m == nil {
		return
	}
	m.TrainDuration.Observe(took.Seconds())
	m.DegenerateBits.Set(float64(degenerate))
}

func (m *Metrics) loaded(degenerate int) {
	if m == nil {
		return
	}
	m.DegenerateBits.Set(float64(degenerate))
}
