package agent

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

var (
	analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "flightassist",
			Name:      "analyses_total",
			Help:      "Total analysis runs handled, partitioned by provider and outcome.",
		},
		[]string{"provider", "outcome"},
	)

	analysisDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "flightassist",
			Name:      "analysis_seconds",
			Help:      "Wall-clock latency of the full two-call exchange.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"provider"},
	)

	tokensUsedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "flightassist",
			Name:      "llm_tokens_used_total",
			Help:      "Total tokens reported by the LLM provider.",
		},
		[]string{"provider"},
	)
)

// RegisterMetrics attaches the agent collectors to reg. Safe to call more
// than once.
func RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{analysesTotal, analysisDurationSeconds, tokensUsedTotal} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

func observeAnalysis(provider string, duration time.Duration, tokens int, success bool) {
	outcome := outcomeError
	if success {
		outcome = outcomeSuccess
	}
	analysesTotal.WithLabelValues(provider, outcome).Inc()
	if success {
		analysisDurationSeconds.WithLabelValues(provider).Observe(duration.Seconds())
		tokensUsedTotal.WithLabelValues(provider).Add(float64(tokens))
	}
}
