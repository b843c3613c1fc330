package inference

import "github.com/prometheus/client_golang/prometheus"

var (
	attemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wayne_inference_attempts_total",
			Help: "Inference endpoint attempts by outcome.",
		},
		[]string{"outcome"},
	)

	attemptDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wayne_inference_request_duration_seconds",
			Help:    "Duration of single inference endpoint attempts.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(attemptsTotal)
	prometheus.MustRegister(attemptDuration)
}
