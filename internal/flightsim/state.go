// Package flightsim is a bench stand-in for a real flight controller. It
// honors the command service's acceptance rules — offboard entry needs a
// live setpoint stream — and enforces the setpoint-staleness failsafe, so
// the agent can be exercised end to end without hardware.
package flightsim

import (
	"fmt"
	"sync"
	"time"

	flightlinkv1 "github.com/aerolink-io/aerolink/api/flightlink/v1"
)

// OffboardMode is the externally-guided mode. It is the only mode with an
// entry precondition and a staleness failsafe.
const OffboardMode = "OFFBOARD"

// failsafeWindow is how stale the setpoint stream may go before offboard
// mode is abandoned.
const failsafeWindow = 500 * time.Millisecond

// State models the controller's flight state. All mutations go through the
// mutex; the command server and the failsafe ticker share it.
type State struct {
	mu sync.Mutex

	vehicleID    string
	armed        bool
	mode         string
	fallbackMode string

	// lastSetpoint is the receive time of the newest setpoint sample.
	// Zero until the first sample arrives.
	lastSetpoint time.Time

	now func() time.Time
}

// NewState creates a controller state booted into the given mode, disarmed.
func NewState(vehicleID, initialMode, fallbackMode string) *State {
	return &State{
		vehicleID:    vehicleID,
		mode:         initialMode,
		fallbackMode: fallbackMode,
		now:          time.Now,
	}
}

// VehicleID returns the identifier of the simulated vehicle.
func (s *State) VehicleID() string {
	return s.vehicleID
}

// NoteSetpoint records the arrival of one setpoint sample.
func (s *State) NoteSetpoint() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSetpoint = s.now()
}

// RequestMode applies a mode-change request and reports whether it was
// accepted. Offboard entry is refused unless the setpoint stream is already
// active and fresh.
func (s *State) RequestMode(mode string) (bool, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if mode == s.mode {
		return true, "already in requested mode"
	}

	if mode == OffboardMode && !s.streamFresh() {
		return false, "no active setpoint stream"
	}

	s.mode = mode
	return true, ""
}

// RequestArm applies an arm/disarm request. Arming in offboard mode has the
// same stream precondition as entering it; disarming is always accepted.
func (s *State) RequestArm(arm bool) (bool, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !arm {
		s.armed = false
		return true, ""
	}

	if s.mode == OffboardMode && !s.streamFresh() {
		return false, "no active setpoint stream"
	}

	s.armed = true
	return true, ""
}

// Tick runs the staleness failsafe. If the vehicle is in offboard mode and
// the stream has gone stale, it drops to the fallback mode and reports the
// trip. Armed state is untouched; mode reversion is the failsafe action.
func (s *State) Tick() (tripped bool, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != OffboardMode || s.streamFresh() {
		return false, ""
	}

	reason = fmt.Sprintf("setpoint stream stale for more than %s", failsafeWindow)
	s.mode = s.fallbackMode
	return true, reason
}

// Status returns the record published on the telemetry feed. Connected is
// always true: while the simulator runs, the link is up.
func (s *State) Status() flightlinkv1.VehicleStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	return flightlinkv1.VehicleStatus{
		VehicleID: s.vehicleID,
		Connected: true,
		Armed:     s.armed,
		Mode:      s.mode,
	}
}

// streamFresh reports whether a setpoint arrived within the failsafe window.
// Callers hold the mutex.
func (s *State) streamFresh() bool {
	return !s.lastSetpoint.IsZero() && s.now().Sub(s.lastSetpoint) < failsafeWindow
}
