// Package metrics defines and registers all custom Prometheus metrics for the
// session gateway. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry at import time
// via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "session_gateway"

// GuardDecisionsTotal counts authorization guard evaluations.
// Labels:
//   - tier: route tier of the requested path (public, registration, coach, authenticated)
//   - outcome: "allow", "redirect", or "wait"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of guard evaluations, by route tier and outcome.",
	},
	[]string{"tier", "outcome"},
)

// HydrationsTotal counts session hydration completions.
// Label:
//   - result: "restored" (valid stored pair), "anonymous" (no record),
//     "stale" (discarded because login/logout settled first), or "error"
var HydrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "hydrations_total",
		Help:      "Total number of completed session hydrations, by result.",
	},
	[]string{"result"},
)

// StoreSelfHealsTotal counts credential records cleared on read because they
// were half-written or failed structural validation.
// Label:
//   - reason: "partial" or "corrupt"
var StoreSelfHealsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_self_heals_total",
		Help:      "Total number of partial or corrupt credential records cleared on read.",
	},
	[]string{"reason"},
)

// LoginsTotal counts login completions at the HTTP surface.
// Label:
//   - result: "success", "rejected" (token refused by the profile API), or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ToastsPushedTotal counts queued notifications by severity.
var ToastsPushedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "toasts_pushed_total",
		Help:      "Total number of notifications queued, by severity.",
	},
	[]string{"severity"},
)

// ToastsExpiredTotal counts notifications removed by the expiry sweeper rather
// than by explicit dismissal.
var ToastsExpiredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "toasts_expired_total",
		Help:      "Total number of notifications that timed out undisplayed or undismissed.",
	},
)
