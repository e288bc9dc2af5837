package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/oceanobs/bog/internal/transport"
)

var (
	// Requests counts outbound API requests by path and response code.
	Requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bog_client_requests_total",
			Help: "Total outbound API requests by path and status code.",
		},
		[]string{"path", "code"},
	)

	// Latency observes outbound request duration by path.
	Latency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bog_client_request_duration_seconds",
			Help:    "Outbound API request latency by path.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)
)

// NewMetricsInterceptor records request counts and latencies into the given
// collectors.
func NewMetricsInterceptor(
	requests *prometheus.CounterVec,
	latency *prometheus.HistogramVec,
) transport.Interceptor {
	return func(req *http.Request, next transport.Doer) (*http.Response, error) {
		start := time.Now()

		resp, err := next.Do(req)

		// Record metrics
		duration := time.Since(start).Seconds()
		code := "error"
		if err == nil {
			code = strconv.Itoa(resp.StatusCode)
		}

		requests.WithLabelValues(req.URL.Path, code).Inc()
		latency.WithLabelValues(req.URL.Path).Observe(duration)

		return resp, err
	}
}

// Setup wraps a base Doer with the standard interceptor stack: request id
// first, then logging (so log lines carry the id), then metrics. Collectors
// are registered with the given registerer.
func Setup(base transport.Doer, logger *logrus.Logger, reg prometheus.Registerer) transport.Doer {
	reg.MustRegister(Requests, Latency)

	return transport.Chain(
		base,
		RequestIDInterceptor,
		LoggingInterceptor(logger),
		NewMetricsInterceptor(Requests, Latency),
	)
}
