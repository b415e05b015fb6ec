// Package metrics exposes the process-wide Prometheus collectors for the
// comm bridge. The HTTP adapter serves them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MessagesSent counts outbound comm messages by handler.
	MessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sidecomm_messages_sent_total",
			Help: "Outbound comm messages, labeled by handler.",
		},
		[]string{"handler"},
	)

	// MessagesReceived counts inbound comm messages by handler.
	MessagesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sidecomm_messages_received_total",
			Help: "Inbound comm messages, labeled by handler.",
		},
		[]string{"handler"},
	)

	// ActiveCells tracks the number of form cells attached to the bridge.
	ActiveCells = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sidecomm_form_cells_active",
			Help: "Form cells currently attached to the sync bridge.",
		},
	)

	// SendFailures counts comm send errors (messages are fire-and-forget,
	// so failures are only ever logged and counted).
	SendFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sidecomm_send_failures_total",
			Help: "Outbound comm messages that failed to send.",
		},
	)
)
