package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Business metrics
	runsSubmitted     *prometheus.CounterVec
	detailFetches     *prometheus.CounterVec
	engineDuration    *prometheus.HistogramVec
	staleDiscarded    prometheus.Counter
	dataWarnings      *prometheus.CounterVec
	reportsArchived   *prometheus.CounterVec
	insightsGenerated *prometheus.CounterVec
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)

	// Business metrics
	r.runsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quantlens_runs_submitted_total",
			Help: "Total number of backtest runs submitted to the engine",
		},
		[]string{"status"},
	)
	r.detailFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quantlens_detail_fetches_total",
			Help: "Total number of backtest detail fetches",
		},
		[]string{"status"},
	)
	r.engineDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quantlens_engine_request_duration_seconds",
			Help:    "Engine request duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		},
		[]string{"operation"},
	)
	r.staleDiscarded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quantlens_stale_responses_discarded_total",
			Help: "Detail responses discarded because the view moved on",
		},
	)
	r.dataWarnings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quantlens_data_warnings_total",
			Help: "Data-consistency warnings found while adapting results",
		},
		[]string{"kind"},
	)
	r.reportsArchived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quantlens_reports_archived_total",
			Help: "Report snapshots written to the archive",
		},
		[]string{"status"},
	)
	r.insightsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quantlens_insights_generated_total",
			Help: "LLM insight summaries generated",
		},
		[]string{"status"},
	)

	reg.MustRegister(r.runsSubmitted)
	reg.MustRegister(r.detailFetches)
	reg.MustRegister(r.engineDuration)
	reg.MustRegister(r.staleDiscarded)
	reg.MustRegister(r.dataWarnings)
	reg.MustRegister(r.reportsArchived)
	reg.MustRegister(r.insightsGenerated)

	return r
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// RecordRunSubmitted records a run submission outcome.
func (r *Registry) RecordRunSubmitted(status string) {
	r.runsSubmitted.WithLabelValues(status).Inc()
}

// RecordDetailFetch records a detail fetch outcome.
func (r *Registry) RecordDetailFetch(status string) {
	r.detailFetches.WithLabelValues(status).Inc()
}

// RecordEngineDuration records the duration of one engine request.
func (r *Registry) RecordEngineDuration(operation string, seconds float64) {
	r.engineDuration.WithLabelValues(operation).Observe(seconds)
}

// RecordStaleDiscarded records a discarded stale detail response.
func (r *Registry) RecordStaleDiscarded() {
	r.staleDiscarded.Inc()
}

// RecordDataWarning records a data-consistency warning by kind.
func (r *Registry) RecordDataWarning(kind string) {
	r.dataWarnings.WithLabelValues(kind).Inc()
}

// RecordReportArchived records an archive write outcome.
func (r *Registry) RecordReportArchived(status string) {
	r.reportsArchived.WithLabelValues(status).Inc()
}

// RecordInsight records an insight generation outcome.
func (r *Registry) RecordInsight(status string) {
	r.insightsGenerated.WithLabelValues(status).Inc()
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
