package setpoint

import (
	"context"
	"encoding/json"

	flightlinkv1 "github.com/aerolink-io/aerolink/api/flightlink/v1"
	"github.com/aerolink-io/aerolink/internal/pkg/metrics"
	"github.com/aerolink-io/aerolink/pkg/mqtt"
	mqtttopic "github.com/aerolink-io/aerolink/pkg/mqtt/topic"
)

// Publisher pushes setpoints to the vehicle's sink topic. QoS 0 and no
// retain: the stream is the contract, not any single sample, and a stale
// sample must never be replayed to a reconnecting controller.
type Publisher struct {
	topic string
	mc    mqtt.Client
}

// NewPublisher creates a publisher for one vehicle's setpoint topic.
func NewPublisher(vehicleID string, client mqtt.Client, topics *mqtttopic.Builder) *Publisher {
	return &Publisher{
		topic: topics.Setpoint(vehicleID),
		mc:    client,
	}
}

// Publish sends the setpoint once. Fire-and-forget: the caller keeps its
// cadence regardless of the outcome, so errors are returned for logging
// only and never interrupt the stream.
func (p *Publisher) Publish(ctx context.Context, sp flightlinkv1.Setpoint) error {
	payload, err := json.Marshal(sp)
	if err != nil {
		return err
	}

	if err := p.mc.Publish(ctx, p.topic, 0, false, payload); err != nil {
		return err
	}

	metrics.SetpointsPublishedTotal.Inc()
	return nil
}
