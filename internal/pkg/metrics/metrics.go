// Package metrics exposes Prometheus instruments for attendance activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "attendance"

var (
	// CheckInsTotal counts accepted check-ins.
	// Labels: status (present, late)
	CheckInsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "check_ins_total",
			Help:      "Total number of accepted check-ins by resulting status",
		},
		[]string{"status"},
	)

	// CheckOutsTotal counts accepted check-outs.
	// Labels: status (present, late, half-day)
	CheckOutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "check_outs_total",
			Help:      "Total number of accepted check-outs by resulting status",
		},
		[]string{"status"},
	)

	// RejectedTotal counts check-in/check-out attempts refused by a business rule.
	// Labels: operation (check_in, check_out), reason
	RejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_operations_total",
			Help:      "Total number of rejected attendance operations by reason",
		},
		[]string{"operation", "reason"},
	)

	// WorkedHours observes total hours recorded at check-out.
	WorkedHours = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "worked_hours",
			Help:      "Hours worked per closed attendance record",
			Buckets:   []float64{1, 2, 4, 6, 8, 9, 10, 12},
		},
	)

	// TeamToday reports the latest team snapshot for the current date.
	// Labels: state (present, late, absent)
	TeamToday = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "team",
			Name:      "today",
			Help:      "Employees present, late and absent today as of the last snapshot",
		},
		[]string{"state"},
	)

	// RosterSize reports the number of employees considered by the last snapshot.
	RosterSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "team",
			Name:      "roster_size",
			Help:      "Employees on the roster as of the last snapshot",
		},
	)

	// HTTPRequestsTotal counts handled requests.
	// Labels: method, route, status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by method, route pattern and status code",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes request latency.
	// Labels: method, route
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordCheckIn records an accepted check-in.
func RecordCheckIn(status string) {
	CheckInsTotal.WithLabelValues(status).Inc()
}

// RecordCheckOut records an accepted check-out and its hours.
func RecordCheckOut(status string, hours float64) {
	CheckOutsTotal.WithLabelValues(status).Inc()
	WorkedHours.Observe(hours)
}

// RecordRejected records a refused operation.
func RecordRejected(operation, reason string) {
	RejectedTotal.WithLabelValues(operation, reason).Inc()
}

// UpdateTeamSnapshot sets the team gauges.
func UpdateTeamSnapshot(roster, present, late, absent int) {
	RosterSize.Set(float64(roster))
	TeamToday.WithLabelValues("present").Set(float64(present))
	TeamToday.WithLabelValues("late").Set(float64(late))
	TeamToday.WithLabelValues("absent").Set(float64(absent))
}
