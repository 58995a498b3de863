// Package metrics defines and registers all Prometheus metrics for the
// XwanAI client. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default registry on package init via promauto;
// expose them with promhttp.Handler().
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "xwan_client"

// ── Remote call metrics ───────────────────────────────────────────────────────

// RemoteRequestsTotal counts calls made through the API gateway.
// Labels:
//   - operation: gateway operation (e.g. "login", "send message")
//   - outcome: HTTP status code as a string, or "transport_error"
var RemoteRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "remote_requests_total",
		Help:      "Total number of requests sent to the remote service.",
	},
	[]string{"operation", "outcome"},
)

// RemoteRequestDuration measures round-trip latency per gateway operation.
var RemoteRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "remote_request_duration_seconds",
		Help:      "Round-trip duration of requests to the remote service.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionTransitionsTotal counts session state changes.
// Label:
//   - transition: "login", "register", "verify", "logout", "expire", "verify_failed"
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session state transitions, by kind.",
	},
	[]string{"transition"},
)

// ── Chat metrics ──────────────────────────────────────────────────────────────

// MessageSendsTotal counts resolved message sends.
// Label:
//   - state: "committed", "rolled_back" or "discarded"
var MessageSendsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "message_sends_total",
		Help:      "Total number of message sends, by final state.",
	},
	[]string{"state"},
)

// CharactersDeletedTotal counts characters removed after a confirmed delete.
var CharactersDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "characters_deleted_total",
		Help:      "Total number of characters deleted and removed from local listings.",
	},
)
