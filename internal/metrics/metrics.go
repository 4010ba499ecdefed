package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels a completed, persisted analysis.
	OutcomeSuccess = "success"
	// OutcomeError labels an analysis that failed at any step.
	OutcomeError = "error"
	// OutcomeUnconfigured labels a request rejected because no generator is configured.
	OutcomeUnconfigured = "unconfigured"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foresight",
			Name:      "http_requests_total",
			Help:      "HTTP requests handled, partitioned by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "foresight",
			Name:      "http_request_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foresight",
			Name:      "analyses_total",
			Help:      "Analyses handled, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	analysisSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "foresight",
			Name:      "analysis_seconds",
			Help:      "End-to-end analysis latency in seconds.",
			Buckets:   []float64{0.5, 1, 2, 4, 6, 8, 10, 15, 20, 30, 60},
		},
	)

	generationCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foresight",
			Name:      "generation_calls_total",
			Help:      "Generation calls, partitioned by prompt step and outcome.",
		},
		[]string{"step", "outcome"},
	)
)

// Register attaches foresight collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		httpRequestsTotal,
		httpRequestSeconds,
		analysesTotal,
		analysisSeconds,
		generationCallsTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveHTTP records one handled request.
func ObserveHTTP(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestSeconds.WithLabelValues(route).Observe(nonNegative(duration).Seconds())
}

// ObserveAnalysis records an analysis duration and outcome label.
func ObserveAnalysis(duration time.Duration, outcome string) {
	switch outcome {
	case OutcomeSuccess, OutcomeUnconfigured:
	default:
		outcome = OutcomeError
	}
	analysesTotal.WithLabelValues(outcome).Inc()
	analysisSeconds.Observe(nonNegative(duration).Seconds())
}

// ObserveGeneration counts a single generation call for a prompt step.
func ObserveGeneration(step string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	generationCallsTotal.WithLabelValues(step, outcome).Inc()
}

func nonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
