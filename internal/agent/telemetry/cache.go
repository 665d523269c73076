// Package telemetry holds the agent-side view of the flight controller's
// state: a cache of the most recent status record and the MQTT feed that
// keeps it current.
package telemetry

import (
	"sync/atomic"

	flightlinkv1 "github.com/aerolink-io/aerolink/api/flightlink/v1"
)

// Cache stores the latest known VehicleStatus. Updates replace the whole
// record atomically, so the control loop never observes a half-written
// status and never blocks on the feed.
type Cache struct {
	cur atomic.Pointer[flightlinkv1.VehicleStatus]
}

// NewCache returns a cache seeded with the pre-contact default:
// disconnected, disarmed, mode unknown.
func NewCache() *Cache {
	c := &Cache{}
	c.cur.Store(&flightlinkv1.VehicleStatus{
		Connected: false,
		Armed:     false,
		Mode:      flightlinkv1.ModeUnknown,
	})
	return c
}

// Current returns the last-known status. Non-blocking.
func (c *Cache) Current() flightlinkv1.VehicleStatus {
	return *c.cur.Load()
}

// OnUpdate replaces the cached status with a newly received record.
// The cache trusts the feed; no validation is performed and no history kept.
func (c *Cache) OnUpdate(status flightlinkv1.VehicleStatus) {
	c.cur.Store(&status)
}
