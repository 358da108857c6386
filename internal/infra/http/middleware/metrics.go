package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_ingested_total",
			Help: "Total number of leads ingested",
		},
		[]string{"outcome"},
	)

	leadsQualified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_qualified_total",
			Help: "Total number of leads resolved by qualification passes",
		},
		[]string{"outcome"},
	)

	messagesDrafted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "outreach_drafted_total",
			Help: "Total number of outreach messages drafted",
		},
	)

	messagesDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outreach_dispatched_total",
			Help: "Total number of outreach dispatch attempts",
		},
		[]string{"outcome"},
	)

	integrationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_errors_total",
			Help: "Total number of integration errors",
		},
		[]string{"service"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

func RecordIngest(inserted, updated int) {
	leadsIngested.WithLabelValues("inserted").Add(float64(inserted))
	leadsIngested.WithLabelValues("updated").Add(float64(updated))
}

func RecordQualification(qualified, disqualified int) {
	leadsQualified.WithLabelValues("qualified").Add(float64(qualified))
	leadsQualified.WithLabelValues("disqualified").Add(float64(disqualified))
}

func RecordDrafts(drafted int) {
	messagesDrafted.Add(float64(drafted))
}

func RecordDispatch(sent, failed int) {
	messagesDispatched.WithLabelValues("sent").Add(float64(sent))
	messagesDispatched.WithLabelValues("failed").Add(float64(failed))
}

func RecordIntegrationError(service string) {
	integrationErrors.WithLabelValues(service).Inc()
}
