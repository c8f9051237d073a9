package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	refreshTotal  *prometheus.CounterVec
	fetchErrors   *prometheus.CounterVec
	composite     *prometheus.GaugeVec
	lastPrice     *prometheus.GaugeVec
	cycleDuration prometheus.Histogram
	emailsTotal   *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		refreshTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swingpull_refresh_total",
				Help: "Refresh cycles by outcome (ok, failed, in_progress)",
			},
			[]string{"result"},
		),
		fetchErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swingpull_fetch_errors_total",
				Help: "Quote fetch failures per symbol",
			},
			[]string{"symbol"},
		),
		composite: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "swingpull_composite_score",
				Help: "Latest composite swing score per symbol",
			},
			[]string{"symbol"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "swingpull_last_price",
				Help: "Last recorded price for a symbol",
			},
			[]string{"symbol"},
		),
		cycleDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "swingpull_refresh_duration_seconds",
				Help:    "Duration of a full refresh cycle in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		emailsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swingpull_emails_total",
				Help: "Dashboard emails by outcome",
			},
			[]string{"result"},
		),
	}
}

// RecordRefresh records the outcome of a refresh cycle.
func (r *Recorder) RecordRefresh(result string) {
	r.refreshTotal.WithLabelValues(result).Inc()
}

// RecordFetchError records a quote fetch failure for a symbol.
func (r *Recorder) RecordFetchError(symbol string) {
	r.fetchErrors.WithLabelValues(symbol).Inc()
}

// RecordComposite records the composite score for a symbol.
func (r *Recorder) RecordComposite(symbol string, score float64) {
	r.composite.WithLabelValues(symbol).Set(score)
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordCycleDuration records how long a refresh cycle took.
func (r *Recorder) RecordCycleDuration(seconds float64) {
	r.cycleDuration.Observe(seconds)
}

// RecordEmail records the outcome of an email delivery.
func (r *Recorder) RecordEmail(result string) {
	r.emailsTotal.WithLabelValues(result).Inc()
}
