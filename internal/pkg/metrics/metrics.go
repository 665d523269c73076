package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// FlightLinkConnectivity tracks the gRPC channel state to the
	// flight-link endpoint. 1 = Ready, 0 = anything else.
	FlightLinkConnectivity = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "aerolink_flightlink_connectivity_status",
			Help: "The connectivity status to the flight-link endpoint (1=Ready, 0=NotReady).",
		},
	)

	// SetpointsPublishedTotal counts setpoint samples pushed to the sink.
	SetpointsPublishedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "aerolink_setpoints_published_total",
			Help: "Total number of position setpoints published.",
		},
	)

	// CommandAttemptsTotal counts SetMode/Arm attempts by outcome.
	CommandAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aerolink_command_attempts_total",
			Help: "Total number of flight-link command attempts.",
		},
		[]string{"command", "result"}, // command: set_mode/arm, result: accepted/rejected
	)

	// CommandLatency records the round-trip time of command calls.
	CommandLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aerolink_command_latency_seconds",
			Help:    "Latency of SetMode/Arm calls against the flight-link endpoint.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)
)

func init() {
	prometheus.MustRegister(FlightLinkConnectivity)
	prometheus.MustRegister(SetpointsPublishedTotal)
	prometheus.MustRegister(CommandAttemptsTotal)
	prometheus.MustRegister(CommandLatency)
}
