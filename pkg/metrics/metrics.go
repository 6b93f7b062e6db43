// Package metrics exposes pipeline counters in the Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "extratos"

// File outcomes used as the "status" label.
const (
	StatusOK     = "ok"
	StatusEmpty  = "empty"
	StatusFailed = "failed"
)

// Metrics holds the collectors of one registry. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry     *prometheus.Registry
	files        *prometheus.CounterVec
	transactions *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	runs         *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_processed_total",
			Help:      "Statement files processed, by bank and outcome.",
		}, []string{"bank", "status"}),
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_parsed_total",
			Help:      "Raw transactions found in statement text.",
		}, []string{"bank"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "file_duration_seconds",
			Help:      "Time spent extracting and parsing one file.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"bank"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Directory runs, by bank and result.",
		}, []string{"bank", "result"}),
	}
	m.registry.MustRegister(
		m.files,
		m.transactions,
		m.duration,
		m.runs,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveFile records the outcome of one file.
func (m *Metrics) ObserveFile(bank, status string, transactions int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.files.WithLabelValues(bank, status).Inc()
	m.transactions.WithLabelValues(bank).Add(float64(transactions))
	m.duration.WithLabelValues(bank).Observe(elapsed.Seconds())
}

// ObserveRun records a directory run; result is "ok" or an error class.
func (m *Metrics) ObserveRun(bank, result string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(bank, result).Inc()
}

// Handler serves the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry is exposed for tests and for embedding in other registries.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
