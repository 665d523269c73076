package topic

import (
	"fmt"
)

// Topic segments shared by the agent and the flight-link side.
// These are the wire contract; changing them strands deployed vehicles.
const (
	// SuffixStatus carries VehicleStatus records (flight-link -> agent).
	// Structure: {root}/telemetry/status/{vehicleID}
	SuffixStatus = "telemetry/status"

	// SuffixSetpoint carries position setpoints (agent -> flight-link).
	// Fire-and-forget; the newest sample always wins.
	// Structure: {root}/setpoint/position/{vehicleID}
	SuffixSetpoint = "setpoint/position"
)

// Builder constructs the full MQTT topic strings for one namespace root.
type Builder struct {
	// root is the base namespace for all topics (e.g. "uav/v1").
	root string
}

// NewBuilder creates a Builder with the specified root namespace.
func NewBuilder(root string) *Builder {
	return &Builder{root: root}
}

// Status returns the telemetry status topic for a vehicle.
func (b *Builder) Status(vehicleID string) string {
	return b.build(SuffixStatus, vehicleID)
}

// StatusWildcard returns the filter matching every vehicle's status topic.
func (b *Builder) StatusWildcard() string {
	return b.build(SuffixStatus, Wildcard)
}

// Setpoint returns the position setpoint topic for a vehicle.
func (b *Builder) Setpoint(vehicleID string) string {
	return b.build(SuffixSetpoint, vehicleID)
}

// SetpointWildcard returns the filter matching every vehicle's setpoint topic.
func (b *Builder) SetpointWildcard() string {
	return b.build(SuffixSetpoint, Wildcard)
}

// build constructs the final topic string. Pattern: {root}/{suffix}/{id}
func (b *Builder) build(suffix, id string) string {
	return fmt.Sprintf("%s/%s/%s", b.root, suffix, id)
}
