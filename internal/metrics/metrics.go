// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	TaskTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasktracker_task_transitions_total",
			Help: "Task state transitions applied, by kind (added, completed, deleted)",
		},
		[]string{"transition"},
	)
	TasksPurged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tasktracker_tasks_purged_total",
			Help: "Completed tasks removed by the lazy purge on listing",
		},
	)
	AuthAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasktracker_auth_attempts_total",
			Help: "Registration and login attempts, by operation and result",
		},
		[]string{"operation", "result"},
	)
	RLRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_requests_total",
			Help: "Total requests seen by the rate limiter",
		},
		[]string{"endpoint"},
	)
	RLBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_blocked_total",
			Help: "Total requests blocked by the rate limiter",
		},
		[]string{"endpoint"},
	)
)

func init() {
	prometheus.MustRegister(TaskTransitions)
	prometheus.MustRegister(TasksPurged)
	prometheus.MustRegister(AuthAttempts)
	prometheus.MustRegister(RLRequests)
	prometheus.MustRegister(RLBlocked)
}
