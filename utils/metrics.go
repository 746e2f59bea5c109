// File: utils/metrics.go
package utils

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "apptbot"

// Metrics holds the scheduling pipeline's Prometheus collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests       *prometheus.CounterVec
	oracleCalls    prometheus.Counter
	rescheduled    prometheus.Counter
	slotCandidates prometheus.Counter
	duration       *prometheus.HistogramVec
	jobsEnqueued   prometheus.Counter
}

// NewMetrics registers the collectors on reg. Pass prometheus.NewRegistry() in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	auto := promauto.With(reg)
	return &Metrics{
		requests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "scheduler",
			Name:      "requests_total",
			Help:      "Scheduling requests by final status and failure code",
		}, []string{"status", "code"}),
		oracleCalls: auto.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "scheduler",
			Name:      "oracle_calls_total",
			Help:      "Extraction oracle invocations",
		}),
		rescheduled: auto.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "scheduler",
			Name:      "rescheduled_total",
			Help:      "Bookings moved to another slot because the requested one was busy",
		}),
		slotCandidates: auto.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "scheduler",
			Name:      "slot_candidates_checked_total",
			Help:      "Candidate slots checked against the calendar during slot search",
		}),
		duration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "scheduler",
			Name:      "request_duration_seconds",
			Help:      "End-to-end scheduling latency",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
		}, []string{"status"}),
		jobsEnqueued: auto.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "jobs",
			Name:      "enqueued_total",
			Help:      "Asynchronous scheduling jobs accepted",
		}),
	}
}

func (m *Metrics) ObserveRequest(status, code string, took time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(status, code).Inc()
	m.duration.WithLabelValues(status).Observe(took.Seconds())
}

func (m *Metrics) AddOracleCalls(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.oracleCalls.Add(float64(n))
}

func (m *Metrics) IncRescheduled() {
	if m == nil {
		return
	}
	m.rescheduled.Inc()
}

func (m *Metrics) AddSlotCandidates(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.slotCandidates.Add(float64(n))
}

func (m *Metrics) IncJobsEnqueued() {
	if m == nil {
		return
	}
	m.jobsEnqueued.Inc()
}
