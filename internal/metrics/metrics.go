// Package metrics defines the Prometheus metrics of the coordination engine.
// Metrics register with the default registry on package init (promauto).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "peerview"

// PresenceOnline tracks the number of users with a live channel.
var PresenceOnline = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "presence_online",
		Help:      "Number of users currently holding a live connection.",
	},
)

// InvitationsTotal counts invitation outcomes.
// Label:
//   - outcome: proposed, accepted, rejected, cancelled, expired, offline
var InvitationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invitations_total",
		Help:      "Total number of invitation events, by outcome.",
	},
	[]string{"outcome"},
)

// RoomTransitionsTotal counts room status transitions, by target status.
var RoomTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "room_transitions_total",
		Help:      "Total number of room status transitions, by target status.",
	},
	[]string{"status"},
)

var RoleSwitchesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_switches_total",
		Help:      "Total number of interviewer/interviewee swaps.",
	},
)

var SignalsRelayedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signals_relayed_total",
		Help:      "Total number of signaling frames delivered to a peer channel.",
	},
)

// SignalsDroppedTotal counts frames that never reached a peer.
// Label:
//   - reason: no_peer, backpressure, rate_limited
var SignalsDroppedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signals_dropped_total",
		Help:      "Total number of signaling frames dropped, by reason.",
	},
	[]string{"reason"},
)

var FeedbackSubmittedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feedback_submitted_total",
		Help:      "Total number of accepted feedback entries.",
	},
)

// CollaboratorDuration measures calls to external collaborators.
// Label:
//   - call: fetch_user_summary, update_user_rating, persist_room_snapshot,
//     fetch_question_set, record_rating
var CollaboratorDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "collaborator_call_duration_seconds",
		Help:      "Duration of calls made to external collaborators.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"call"},
)
