package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	workflowOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskdesk_assignment_workflows_total",
		Help: "Assignment workflow invocations by operation (assign|remove) and outcome (success|fail).",
	}, []string{"operation", "outcome"})

	searchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "taskdesk_task_search_duration_seconds",
		Help:    "Duration of paginated task searches, content and count queries included.",
		Buckets: prometheus.DefBuckets,
	})
)
