// Package metrics exposes evaluation and compression counters through a
// private Prometheus registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Evaluation outcomes.
const (
	OutcomeValue     = "value"
	OutcomeStuck     = "stuck"
	OutcomeExhausted = "exhausted"
	OutcomeCancelled = "cancelled"
)

// Collector records runtime activity. A nil *Collector is valid and
// records nothing.
type Collector struct {
	registry *prometheus.Registry

	evaluations    *prometheus.CounterVec
	strictOps      prometheus.Counter
	betaReductions prometheus.Counter
	passes         prometheus.Histogram
	duration       prometheus.Histogram

	compressions *prometheus.CounterVec
	bytesSaved   prometheus.Counter
	verifyErrors prometheus.Counter
}

// NewCollector registers all metrics under namespace in a fresh registry.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "bvl"
	}
	c := &Collector{
		registry: prometheus.NewRegistry(),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "eval",
			Name:      "runs_total",
			Help:      "Evaluation runs by outcome.",
		}, []string{"outcome"}),
		strictOps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "eval",
			Name:      "strict_ops_total",
			Help:      "Strict operator applications performed.",
		}),
		betaReductions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "eval",
			Name:      "beta_reductions_total",
			Help:      "Beta reductions performed.",
		}),
		passes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "eval",
			Name:      "passes",
			Help:      "Reduction passes per run.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "eval",
			Name:      "duration_seconds",
			Help:      "Wall time per run.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30},
		}),
		compressions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "compress",
			Name:      "solutions_total",
			Help:      "Compressed solutions by chosen mode.",
		}, []string{"mode"}),
		bytesSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "compress",
			Name:      "bytes_saved_total",
			Help:      "Bytes saved over the raw literal.",
		}),
		verifyErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "compress",
			Name:      "verify_errors_total",
			Help:      "Candidates that failed their round trip.",
		}),
	}
	c.registry.MustRegister(
		c.evaluations, c.strictOps, c.betaReductions, c.passes, c.duration,
		c.compressions, c.bytesSaved, c.verifyErrors,
	)
	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// RecordEvaluation counts one finished run.
func (c *Collector) RecordEvaluation(outcome string, strictOps, betaReductions int64, passes int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.evaluations.WithLabelValues(outcome).Inc()
	c.strictOps.Add(float64(strictOps))
	c.betaReductions.Add(float64(betaReductions))
	c.passes.Observe(float64(passes))
	c.duration.Observe(elapsed.Seconds())
}

// RecordCompression counts one compressed solution.
func (c *Collector) RecordCompression(mode string, saved int) {
	if c == nil {
		return
	}
	c.compressions.WithLabelValues(mode).Inc()
	if saved > 0 {
		c.bytesSaved.Add(float64(saved))
	}
}

// RecordVerifyError counts a candidate rejected by verification.
func (c *Collector) RecordVerifyError() {
	if c == nil {
		return
	}
	c.verifyErrors.Inc()
}

// WriteTextfile writes the registry in text exposition format, for the
// node exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	if c == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, c.registry)
}
