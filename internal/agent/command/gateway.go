// Package command issues mode-change and arming requests to the flight-link
// endpoint. Every failure mode — rejection, timeout, transport error —
// collapses to a plain "not accepted" so the control loop can treat retry
// timing as its only concern.
package command

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"

	flightlinkv1 "github.com/aerolink-io/aerolink/api/flightlink/v1"
	"github.com/aerolink-io/aerolink/internal/pkg/metrics"
	grpcmiddleware "github.com/aerolink-io/aerolink/internal/pkg/middleware/grpc"
	"github.com/aerolink-io/aerolink/pkg/log"
)

// Gateway is the agent's client for the flight-link command service.
type Gateway struct {
	vehicleID string

	// timeout bounds each call. The control loop issues commands from
	// inside its publishing cycle, so a hung call would stall the setpoint
	// stream; the bound keeps the stall inside the failsafe window.
	timeout time.Duration

	client flightlinkv1.CommandServiceClient
	conn   *grpc.ClientConn
}

// NewGateway dials the flight-link endpoint and returns a gateway for the
// given vehicle. The connection is managed lazily by gRPC; Start runs the
// lifecycle and connectivity monitor.
func NewGateway(addr, vehicleID string, timeout time.Duration) (*Gateway, error) {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(flightlinkv1.CodecName)),
		grpc.WithUnaryInterceptor(grpcmiddleware.UnaryTimeoutInterceptor),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize flight-link client for %q: %w", addr, err)
	}

	return &Gateway{
		vehicleID: vehicleID,
		timeout:   timeout,
		client:    flightlinkv1.NewCommandServiceClient(conn),
		conn:      conn,
	}, nil
}

// NewGatewayForConn wraps an existing connection. Used by tests and by
// embedders that manage the connection themselves.
func NewGatewayForConn(cc grpc.ClientConnInterface, vehicleID string, timeout time.Duration) *Gateway {
	return &Gateway{
		vehicleID: vehicleID,
		timeout:   timeout,
		client:    flightlinkv1.NewCommandServiceClient(cc),
	}
}

// RequestModeChange asks the controller to switch to the given flight mode.
// Returns whether the controller accepted the request; acceptance does not
// mean the mode is active yet — that arrives on the status feed.
func (g *Gateway) RequestModeChange(ctx context.Context, mode string) bool {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	resp, err := g.client.SetMode(ctx, &flightlinkv1.SetModeRequest{
		VehicleID: g.vehicleID,
		Mode:      mode,
	})
	metrics.CommandLatency.WithLabelValues("set_mode").Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.CommandAttemptsTotal.WithLabelValues("set_mode", "rejected").Inc()
		log.Warn("SetMode request failed", "mode", mode, err)
		return false
	}

	g.count("set_mode", resp.Accepted)
	if !resp.Accepted {
		log.Info("SetMode request not accepted", "mode", mode, "message", resp.Message)
	}
	return resp.Accepted
}

// RequestArm asks the controller to arm (true) or disarm (false).
func (g *Gateway) RequestArm(ctx context.Context, arm bool) bool {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	resp, err := g.client.Arm(ctx, &flightlinkv1.ArmRequest{
		VehicleID: g.vehicleID,
		Arm:       arm,
	})
	metrics.CommandLatency.WithLabelValues("arm").Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.CommandAttemptsTotal.WithLabelValues("arm", "rejected").Inc()
		log.Warn("Arm request failed", "arm", arm, err)
		return false
	}

	g.count("arm", resp.Accepted)
	if !resp.Accepted {
		log.Info("Arm request not accepted", "arm", arm, "message", resp.Message)
	}
	return resp.Accepted
}

func (g *Gateway) count(cmd string, accepted bool) {
	result := "rejected"
	if accepted {
		result = "accepted"
	}
	metrics.CommandAttemptsTotal.WithLabelValues(cmd, result).Inc()
}

// Start runs the connection lifecycle: a connectivity monitor while the
// context lives, then a clean close. No-op for externally-managed
// connections.
func (g *Gateway) Start(ctx context.Context) error {
	if g.conn == nil {
		<-ctx.Done()
		return nil
	}

	go g.monitorConnection(ctx)

	<-ctx.Done()

	log.Info("Flight-link gateway shutting down, closing connection...")
	return g.conn.Close()
}

func (g *Gateway) monitorConnection(ctx context.Context) {
	logger := log.WithName("flightlink-monitor")

	lastState := g.conn.GetState()
	g.updateMetric(lastState)

	for {
		// WaitForStateChange blocks until the state moves, or returns
		// false once ctx is cancelled.
		if !g.conn.WaitForStateChange(ctx, lastState) {
			return
		}

		newState := g.conn.GetState()
		logger.Info("Flight-link connection state changed", "from", lastState.String(), "to", newState.String())

		g.updateMetric(newState)
		lastState = newState
	}
}

func (g *Gateway) updateMetric(state connectivity.State) {
	if state == connectivity.Ready {
		metrics.FlightLinkConnectivity.Set(1)
	} else {
		metrics.FlightLinkConnectivity.Set(0)
	}
}
