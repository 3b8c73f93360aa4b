// Package metrics registers the Prometheus metrics for the alarm engine.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "reportrack_"

var (
	registerOnce sync.Once

	runsTotal       *prometheus.CounterVec
	alarmsEvaluated prometheus.Counter
	alarmsTriggered prometheus.Counter
	emailSends      *prometheus.CounterVec
	runDuration     prometheus.Histogram
)

// Init registers engine metrics with the default registry. Safe to call
// more than once.
func Init() {
	registerOnce.Do(func() {
		runsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "alarm_runs_total",
				Help: "Total batch runs by result",
			},
			[]string{"result"},
		)
		alarmsEvaluated = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "alarms_evaluated_total",
				Help: "Total alarms evaluated",
			},
		)
		alarmsTriggered = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "alarms_triggered_total",
				Help: "Total alarms that triggered a notification",
			},
		)
		emailSends = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "email_sends_total",
				Help: "Total notification email attempts by status",
			},
			[]string{"status"},
		)
		runDuration = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "alarm_run_duration_seconds",
				Help:    "Batch run duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		)

		prometheus.MustRegister(runsTotal, alarmsEvaluated, alarmsTriggered, emailSends, runDuration)
	})
}

// ObserveRun records one completed batch run.
func ObserveRun(result string, seconds float64) {
	if runsTotal == nil {
		return
	}
	runsTotal.WithLabelValues(result).Inc()
	runDuration.Observe(seconds)
}

// AlarmEvaluated counts one evaluated alarm.
func AlarmEvaluated() {
	if alarmsEvaluated != nil {
		alarmsEvaluated.Inc()
	}
}

// AlarmTriggered counts one triggered alarm.
func AlarmTriggered() {
	if alarmsTriggered != nil {
		alarmsTriggered.Inc()
	}
}

// EmailSend counts one email attempt by status ("success" or "failed").
func EmailSend(status string) {
	if emailSends != nil {
		emailSends.WithLabelValues(status).Inc()
	}
}
