package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datawhisperer_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "datawhisperer_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// unmatchedRoute labels requests for paths the service does not serve, so
// scanners cannot grow the label set without bound.
const unmatchedRoute = "unmatched"

var knownRoutes = map[string]struct{}{
	"/":           {},
	"/query":      {},
	"/v1/query":   {},
	"/v1/health":  {},
	"/v1/ready":   {},
	"/v1/metrics": {},
}

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDurationSeconds)
}

func routeLabel(path string) string {
	if _, ok := knownRoutes[path]; ok {
		return path
	}
	return unmatchedRoute
}
