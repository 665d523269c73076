package telemetry

import (
	"context"
	"encoding/json"

	flightlinkv1 "github.com/aerolink-io/aerolink/api/flightlink/v1"
	"github.com/aerolink-io/aerolink/pkg/log"
	"github.com/aerolink-io/aerolink/pkg/mqtt"
	mqtttopic "github.com/aerolink-io/aerolink/pkg/mqtt/topic"
)

// Feed subscribes to the vehicle's status topic and pushes each record into
// the cache. The cache is the only consumer-facing surface; the control loop
// never touches the transport.
type Feed struct {
	vehicleID string

	mc     mqtt.Client
	topics *mqtttopic.Builder
	cache  *Cache
}

// NewFeed creates a feed updating the given cache.
func NewFeed(vehicleID string, client mqtt.Client, topics *mqtttopic.Builder, cache *Cache) *Feed {
	return &Feed{
		vehicleID: vehicleID,
		mc:        client,
		topics:    topics,
		cache:     cache,
	}
}

// Start subscribes to the status topic. The MQTT client re-subscribes on
// reconnect, so this is called once.
func (f *Feed) Start(ctx context.Context) error {
	topic := f.topics.Status(f.vehicleID)
	return f.mc.Subscribe(ctx, topic, 1, f.handle)
}

func (f *Feed) handle(ctx context.Context, topic string, payload []byte) {
	var status flightlinkv1.VehicleStatus
	if err := json.Unmarshal(payload, &status); err != nil {
		log.Error(err, "Failed to unmarshal vehicle status", "topic", topic)
		return
	}

	f.cache.OnUpdate(status)
	log.Debug("Vehicle status updated", "connected", status.Connected, "armed", status.Armed, "mode", status.Mode)
}
