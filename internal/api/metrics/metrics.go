// Package metrics defines and registers all custom Prometheus metrics for
// the qrvault API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the /metrics endpoint is wired by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "qrvault"

// ── Login metrics ─────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login outcomes.
// Label:
//   - result: "success", "failure", or "locked" (denied by the daily lockout
//     before credentials were checked)
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, labelled by outcome.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts registration outcomes.
// Label:
//   - result: "created" or "duplicate"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration requests, labelled by outcome.",
	},
	[]string{"result"},
)

// ── QR code metrics ───────────────────────────────────────────────────────────

// QRCodesGeneratedTotal counts generated images.
// Label:
//   - cache: "hit" (served from Redis) or "miss" (freshly encoded)
var QRCodesGeneratedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "qrcodes_generated_total",
		Help:      "Total number of QR code images produced, labelled by cache result.",
	},
	[]string{"cache"},
)

// QRCodesSavedTotal counts history records created.
var QRCodesSavedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "qrcodes_saved_total",
		Help:      "Total number of QR codes saved to user history.",
	},
)

// QRCodesDeletedTotal counts admin deletions.
var QRCodesDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "qrcodes_deleted_total",
		Help:      "Total number of QR codes deleted by admin action.",
	},
)
