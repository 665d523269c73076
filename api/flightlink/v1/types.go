// Package flightlinkv1 defines the wire contract between the offboard agent
// and the flight-link endpoint fronting the autopilot: the telemetry and
// setpoint payloads carried over MQTT and the command service carried over
// gRPC.
package flightlinkv1

// ModeUnknown is the mode reported before the first status record arrives.
const ModeUnknown = "UNKNOWN"

// VehicleStatus is the latest known state of the flight controller.
// Published retained on {root}/telemetry/status/{vehicleID}.
type VehicleStatus struct {
	VehicleID string `json:"vehicleId,omitempty"`
	Connected bool   `json:"connected"`
	Armed     bool   `json:"armed"`
	Mode      string `json:"mode"`
}

// Setpoint is a position target in the local ENU frame, metres.
// Published on {root}/setpoint/position/{vehicleID}, QoS 0, not retained.
// The controller enforces a staleness failsafe, so the stream matters more
// than any individual sample.
type Setpoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// SetModeRequest asks the controller to switch its active flight mode.
type SetModeRequest struct {
	VehicleID string `json:"vehicleId"`
	Mode      string `json:"mode"`
}

// SetModeResponse reports whether the controller accepted the switch.
// Acceptance is not activation: the new mode shows up on the status feed.
type SetModeResponse struct {
	Accepted bool   `json:"accepted"`
	Message  string `json:"message,omitempty"`
}

// ArmRequest asks the controller to arm or disarm.
type ArmRequest struct {
	VehicleID string `json:"vehicleId"`
	Arm       bool   `json:"arm"`
}

// ArmResponse reports whether the controller accepted the arming change.
type ArmResponse struct {
	Accepted bool   `json:"accepted"`
	Message  string `json:"message,omitempty"`
}
