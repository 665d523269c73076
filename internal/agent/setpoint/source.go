// Package setpoint forwards position targets to the flight-link sink. The
// target itself is owned by the caller (a planner or operator); this package
// only holds the current value and streams it.
package setpoint

import (
	"sync/atomic"

	flightlinkv1 "github.com/aerolink-io/aerolink/api/flightlink/v1"
)

// Source holds the current target setpoint. Swap and Current are atomic, so
// a planner may retarget at any time while the control loop streams; the
// loop always forwards whatever is current, with no smoothing.
type Source struct {
	cur atomic.Pointer[flightlinkv1.Setpoint]
}

// NewSource creates a source holding the initial target.
func NewSource(initial flightlinkv1.Setpoint) *Source {
	s := &Source{}
	s.cur.Store(&initial)
	return s
}

// Current returns the target to stream this cycle.
func (s *Source) Current() flightlinkv1.Setpoint {
	return *s.cur.Load()
}

// Swap replaces the target. Takes effect on the next publish cycle.
func (s *Source) Swap(sp flightlinkv1.Setpoint) {
	s.cur.Store(&sp)
}
