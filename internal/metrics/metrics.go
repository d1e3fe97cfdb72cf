// Package metrics defines Prometheus metrics for rentora.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rentora_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rentora_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rentora_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	LeaseTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rentora_lease_transitions_total",
			Help: "Lease lifecycle transitions by entry point and outcome",
		},
		[]string{"op", "outcome"},
	)

	EscrowHeld = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rentora_escrow_held_units",
			Help: "Total funds currently custodied across all leases, in smallest currency units",
		},
	)

	PropertiesTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rentora_properties_total",
			Help: "Total minted properties",
		},
	)

	AuditQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rentora_audit_queue_depth",
			Help: "Current audit worker queue depth",
		},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rentora_websocket_connections",
			Help: "Active WebSocket connections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		LeaseTransitions, EscrowHeld, PropertiesTotal,
		AuditQueueDepth, WSConnections,
	)
}
