package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SscSPs/darkstore_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/darkstore_ledger/internal/core/ports/services"
)

const namespace = "ledger"

// Recorder implements portssvc.PostingMetrics on a private Prometheus registry.
type Recorder struct {
	registry       *prometheus.Registry
	postings       *prometheus.CounterVec
	postingLatency *prometheus.HistogramVec
	summaryCache   *prometheus.CounterVec
}

// NewRecorder registers the ledger collectors together with the Go and process collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		postings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "postings_total",
			Help:      "Journal entry posting attempts by outcome and source module.",
		}, []string{"outcome", "source_module"}),
		postingLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "posting_duration_seconds",
			Help:      "Time spent validating and appending a journal entry.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		summaryCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summary_cache_lookups_total",
			Help:      "Ledger summary cache lookups by result.",
		}, []string{"result"}),
	}

	r.registry.MustRegister(
		r.postings,
		r.postingLatency,
		r.summaryCache,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

var _ portssvc.PostingMetrics = (*Recorder)(nil)

func (r *Recorder) ObservePosting(outcome string, sourceModule domain.SourceModule, seconds float64) {
	r.postings.WithLabelValues(outcome, string(sourceModule)).Inc()
	r.postingLatency.WithLabelValues(outcome).Observe(seconds)
}

func (r *Recorder) ObserveSummaryCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.summaryCache.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
