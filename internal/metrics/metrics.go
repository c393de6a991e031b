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
	reportsComputed       *prometheus.CounterVec
	reportDuration        prometheus.Histogram
	quoteRequests         *prometheus.CounterVec
	chatbotPrompts        *prometheus.CounterVec
	transactionsRecorded  *prometheus.CounterVec
	snapshotsArchived     *prometheus.CounterVec
	recommendationsServed prometheus.Counter
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
	r.reportsComputed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "openfolio_reports_computed_total",
			Help: "Total number of performance reports computed",
		},
		[]string{"kind"},
	)
	r.reportDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "openfolio_report_duration_seconds",
			Help:    "Performance report computation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
	r.quoteRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "openfolio_quote_requests_total",
			Help: "Total number of market data requests",
		},
		[]string{"operation", "status"},
	)
	r.chatbotPrompts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "openfolio_chatbot_prompts_total",
			Help: "Total number of chatbot prompts answered",
		},
		[]string{"handler"},
	)
	r.transactionsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "openfolio_transactions_recorded_total",
			Help: "Total number of transactions recorded",
		},
		[]string{"type"},
	)
	r.snapshotsArchived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "openfolio_snapshots_archived_total",
			Help: "Total number of report snapshots archived",
		},
		[]string{"status"},
	)
	r.recommendationsServed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "openfolio_recommendations_served_total",
			Help: "Total number of recommendations served",
		},
	)

	reg.MustRegister(r.reportsComputed)
	reg.MustRegister(r.reportDuration)
	reg.MustRegister(r.quoteRequests)
	reg.MustRegister(r.chatbotPrompts)
	reg.MustRegister(r.transactionsRecorded)
	reg.MustRegister(r.snapshotsArchived)
	reg.MustRegister(r.recommendationsServed)

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

// RecordReport records a completed report computation.
func (r *Registry) RecordReport(kind string, duration float64) {
	r.reportsComputed.WithLabelValues(kind).Inc()
	r.reportDuration.Observe(duration)
}

// RecordQuoteRequest records a market data request.
func (r *Registry) RecordQuoteRequest(operation, status string) {
	r.quoteRequests.WithLabelValues(operation, status).Inc()
}

// RecordChatbotPrompt records a chatbot prompt and which handler answered it.
func (r *Registry) RecordChatbotPrompt(handler string) {
	r.chatbotPrompts.WithLabelValues(handler).Inc()
}

// RecordTransaction records a recorded transaction.
func (r *Registry) RecordTransaction(txType string) {
	r.transactionsRecorded.WithLabelValues(txType).Inc()
}

// RecordSnapshot records a report snapshot archive attempt.
func (r *Registry) RecordSnapshot(status string) {
	r.snapshotsArchived.WithLabelValues(status).Inc()
}

// RecordRecommendation records a served recommendation.
func (r *Registry) RecordRecommendation() {
	r.recommendationsServed.Inc()
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
