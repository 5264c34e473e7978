// Package metrics defines and registers the custom Prometheus metrics of the
// admin console. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry at package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "console"

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// SessionHealsTotal counts sessions cleared because a read found them unusable.
// Label:
//   - reason: "incomplete", "invalid_token", "mismatch" or "corrupt"
var SessionHealsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_heals_total",
		Help:      "Total number of sessions cleared on read because they were invalid.",
	},
	[]string{"reason"},
)

// ── User metrics ──────────────────────────────────────────────────────────────

// UserMutationsTotal counts user create/update/delete/password operations.
// Labels:
//   - operation: "create", "update", "profile", "delete", "password"
//   - result: "ok", "rejected" (validation failure) or "error"
var UserMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_mutations_total",
		Help:      "Total number of user mutations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsTotal counts audit events delivered to the recorder.
// Label:
//   - action: the audited action (e.g. "user.create")
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of audit events recorded, by action.",
	},
	[]string{"action"},
)

// AuditQueueDepth tracks the number of audit events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditDroppedTotal counts audit events dropped because a worker channel was full.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of audit events dropped because the dispatcher was saturated.",
	},
)
