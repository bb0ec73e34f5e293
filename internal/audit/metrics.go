package audit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var auditWrites = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "taskdesk_audit_writes_total",
	Help: "Audit entry writes by action, recorded status and write result (ok|error).",
}, []string{"action", "status", "result"})
