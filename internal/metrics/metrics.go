// Package metrics defines the Prometheus collectors of the service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics.
type Metrics struct {
	CheckIns          *prometheus.CounterVec
	CheckOuts         *prometheus.CounterVec
	DateAdvances      *prometheus.CounterVec
	Transitions       *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	CacheLookups      *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		CheckIns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "check_ins_total",
			Help:      "Check-in attempts by outcome code.",
		}, []string{"outcome"}),
		CheckOuts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "check_outs_total",
			Help:      "Check-out attempts by outcome code.",
		}, []string{"outcome"}),
		DateAdvances: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "date_advances_total",
			Help:      "Date advance batches by outcome code.",
		}, []string{"outcome"}),
		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_transitions_total",
			Help:      "Booking and room rows changed by date advances.",
		}, []string{"transition"}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Time taken by engine operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "room_cache_lookups_total",
			Help:      "Room listing cache lookups by result.",
		}, []string{"result"}),
	}
}

// ObserveSince records the time elapsed since start for operation.
func (m *Metrics) ObserveSince(operation string, start time.Time) {
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
