package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	askTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datawhisperer_ask_total",
			Help: "Total number of questions handled, by outcome.",
		},
		[]string{"outcome"},
	)
	llmLatencySeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "datawhisperer_llm_latency_seconds",
			Help:    "Latency of chat completion calls used for SQL generation.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 15, 30},
		},
	)
	queryLatencySeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "datawhisperer_query_latency_seconds",
			Help:    "Latency of generated SQL execution.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)
	authFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datawhisperer_auth_failures_total",
			Help: "Requests rejected for a missing or unknown API key.",
		},
		[]string{"reason"},
	)
	resultRows = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "datawhisperer_result_rows",
			Help:    "Number of rows returned per successful question.",
			Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000, 5000},
		},
	)
)

func init() {
	prometheus.MustRegister(
		askTotal,
		llmLatencySeconds,
		queryLatencySeconds,
		resultRows,
		authFailuresTotal,
	)
}

func ObserveAsk(outcome string) {
	askTotal.WithLabelValues(outcome).Inc()
}

func ObserveLLMLatency(elapsed time.Duration) {
	llmLatencySeconds.Observe(elapsed.Seconds())
}

func ObserveQuery(rows int, elapsed time.Duration) {
	queryLatencySeconds.Observe(elapsed.Seconds())
	if rows >= 0 {
		resultRows.Observe(float64(rows))
	}
}

func ObserveAuthFailure(reason string) {
	authFailuresTotal.WithLabelValues(reason).Inc()
}
