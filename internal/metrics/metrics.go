package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	operations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pdfdesk",
			Name:      "operations_total",
			Help:      "Total operation invocations by operation and result",
		},
		[]string{"op", "result"},
	)

	opDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pdfdesk",
			Name:      "operation_duration_seconds",
			Help:      "Duration of operation invocations by operation",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	pagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pdfdesk",
			Name:      "pages_processed_total",
			Help:      "Total pages flowing through operations",
		},
		[]string{"op"},
	)

	fetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pdfdesk",
			Name:      "remote_fetches_total",
			Help:      "Remote source downloads by result",
		},
		[]string{"result"},
	)
)

// Init registers collectors.
func Init() {
	prometheus.MustRegister(operations, opDuration, pagesProcessed, fetches)
}

// Handler returns the http.Handler for /metrics
func Handler() http.Handler { return promhttp.Handler() }

// ObserveOperation records one finished operation invocation.
func ObserveOperation(op, result string, dur time.Duration) {
	operations.WithLabelValues(op, result).Inc()
	opDuration.WithLabelValues(op).Observe(dur.Seconds())
}

// AddPages counts pages handled by an operation.
func AddPages(op string, n int) {
	if n > 0 {
		pagesProcessed.WithLabelValues(op).Add(float64(n))
	}
}

// IncFetch tracks one remote source download.
func IncFetch(result string) { fetches.WithLabelValues(result).Inc() }
