// Package agent assembles and runs the offboard-control agent: the status
// feed and setpoint sink over MQTT, the flight-link command gateway over
// gRPC, the offboard control loop, and the health/metrics HTTP endpoint.
package agent

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/aerolink-io/aerolink/internal/agent/command"
	"github.com/aerolink-io/aerolink/internal/agent/offboard"
	"github.com/aerolink-io/aerolink/internal/agent/telemetry"
	"github.com/aerolink-io/aerolink/pkg/log"
	"github.com/aerolink-io/aerolink/pkg/mqtt"
)

type Agent struct {
	vehicleID string

	mc         mqtt.Client
	feed       *telemetry.Feed
	gateway    *command.Gateway
	controller *offboard.Controller
	httpServer *httpServer
}

func NewAgent(vid string, mc mqtt.Client, feed *telemetry.Feed, gateway *command.Gateway, controller *offboard.Controller, httpServer *httpServer) *Agent {
	return &Agent{
		vehicleID:  vid,
		mc:         mc,
		feed:       feed,
		gateway:    gateway,
		controller: controller,
		httpServer: httpServer,
	}
}

// Run starts every component and blocks until the context is cancelled or a
// component fails. The MQTT connection is established first so the status
// feed is live before the control loop starts observing it.
func (a *Agent) Run(ctx context.Context) error {
	log.Info("Starting alink-offboard-agent", "vehicleID", a.vehicleID)

	if err := a.mc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start mqtt client: %w", err)
	}
	defer a.mc.Disconnect(context.Background())

	if err := a.mc.AwaitConnection(ctx); err != nil {
		return fmt.Errorf("broker connection not established: %w", err)
	}

	if err := a.feed.Start(ctx); err != nil {
		return fmt.Errorf("failed to subscribe status feed: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.controller.Run(ctx)
	})
	g.Go(func() error {
		return a.gateway.Start(ctx)
	})
	g.Go(func() error {
		return a.httpServer.Start(ctx)
	})

	err := g.Wait()
	log.Info("Agent shutting down...")
	return err
}
