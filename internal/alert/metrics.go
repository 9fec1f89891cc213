package alert

import (
	"github.com/prometheus/client_golang/prometheus"
)

type PipelineMetrics struct {
	AlertsEvaluated   prometheus.Counter
	QuoteFailures     prometheus.Counter
	NotificationsSent prometheus.Counter
	PushFailures      prometheus.Counter
}

var metrics = newPipelineMetrics()

func newPipelineMetrics() *PipelineMetrics {
	m := &PipelineMetrics{
		AlertsEvaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tinychain",
			Subsystem: "alerting",
			Name:      "alerts_evaluated",
			Help:      "The total number of alert evaluations performed",
		}),
		QuoteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tinychain",
			Subsystem: "alerting",
			Name:      "quote_failures",
			Help:      "The total number of alerts skipped because no quote was available",
		}),
		NotificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tinychain",
			Subsystem: "alerting",
			Name:      "notifications_sent",
			Help:      "The total number of push delivery attempts",
		}),
		PushFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tinychain",
			Subsystem: "alerting",
			Name:      "push_failures",
			Help:      "The total number of failed push delivery attempts",
		}),
	}

	prometheus.MustRegister(m.AlertsEvaluated)
	prometheus.MustRegister(m.QuoteFailures)
	prometheus.MustRegister(m.NotificationsSent)
	prometheus.MustRegister(m.PushFailures)

	return m
}

// Metrics exposes the pipeline counters for startup restore and
// shutdown persistence.
func Metrics() *PipelineMetrics {
	return metrics
}
