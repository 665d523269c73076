// Package offboard implements the arbitration and setpoint-streaming loop
// that drives the flight controller into a target mode and keeps it there:
// wait for contact, prime the setpoint stream, then interleave rate-limited
// mode-change and arming requests while republishing the setpoint at a
// cadence that never breaches the controller's staleness failsafe.
package offboard

import (
	"context"
	"time"

	"github.com/looplab/fsm"

	flightlinkv1 "github.com/aerolink-io/aerolink/api/flightlink/v1"
	"github.com/aerolink-io/aerolink/pkg/log"
)

// StatusSource yields the last-known controller status. Non-blocking.
type StatusSource interface {
	Current() flightlinkv1.VehicleStatus
}

// TargetSource yields the setpoint to stream this cycle.
type TargetSource interface {
	Current() flightlinkv1.Setpoint
}

// Publisher pushes one setpoint sample to the controller. Fire-and-forget.
type Publisher interface {
	Publish(ctx context.Context, sp flightlinkv1.Setpoint) error
}

// Commander issues the two command kinds. Implementations collapse every
// failure to false; the controller only decides retry timing.
type Commander interface {
	RequestModeChange(ctx context.Context, mode string) bool
	RequestArm(ctx context.Context, arm bool) bool
}

// Config is the arbitration policy. Zero fields fall back to defaults.
type Config struct {
	// TargetMode is the flight mode to drive the vehicle into.
	TargetMode string

	// CadencePeriod is the control-cycle interval. Must stay well below
	// the controller's 500ms setpoint-staleness failsafe.
	CadencePeriod time.Duration

	// PrimingCycles is the number of setpoints streamed before the first
	// command attempt.
	PrimingCycles int

	// CommandCooldown is the minimum interval between command attempts,
	// shared by both request kinds.
	CommandCooldown time.Duration
}

func (c *Config) withDefaults() {
	if c.TargetMode == "" {
		c.TargetMode = "OFFBOARD"
	}
	if c.CadencePeriod <= 0 {
		c.CadencePeriod = 50 * time.Millisecond
	}
	if c.PrimingCycles <= 0 {
		c.PrimingCycles = 100
	}
	if c.CommandCooldown <= 0 {
		c.CommandCooldown = 5 * time.Second
	}
}

// Controller is the offboard state machine. Not safe for concurrent use;
// Run owns it for the lifetime of the loop.
type Controller struct {
	cfg Config

	status StatusSource
	target TargetSource
	pub    Publisher
	cmd    Commander

	machine *fsm.FSM
	now     func() time.Time

	primeCount  int
	lastRequest time.Time
}

// NewController wires the collaborators into a controller in the
// AwaitConnection phase.
func NewController(cfg Config, status StatusSource, target TargetSource, pub Publisher, cmd Commander) *Controller {
	cfg.withDefaults()
	return &Controller{
		cfg:     cfg,
		status:  status,
		target:  target,
		pub:     pub,
		cmd:     cmd,
		machine: newPhaseMachine(),
		now:     time.Now,
	}
}

// Phase returns the current phase name.
func (c *Controller) Phase() string {
	return c.machine.Current()
}

// Run drives the control loop at the configured cadence until the context
// is cancelled. The loop never terminates on its own: command rejections
// and mode regressions are absorbed by the engage arbitration, not
// escalated.
func (c *Controller) Run(ctx context.Context) error {
	log.Info("Offboard controller started",
		"targetMode", c.cfg.TargetMode,
		"cadence", c.cfg.CadencePeriod,
		"primingCycles", c.cfg.PrimingCycles,
		"commandCooldown", c.cfg.CommandCooldown)

	ticker := time.NewTicker(c.cfg.CadencePeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Offboard controller stopped")
			return nil
		case <-ticker.C:
			c.cycle(ctx)
		}
	}
}

// cycle executes one control period. Publishing happens in every phase
// except AwaitConnection, before and independent of any command activity.
func (c *Controller) cycle(ctx context.Context) {
	status := c.status.Current()

	switch c.machine.Current() {
	case PhaseAwaitConnection:
		if err := c.machine.Event(ctx, EventConnected, status); err != nil {
			return // no contact yet; the vehicle cannot take setpoints
		}
		// Contact established this cycle; it counts as the first priming
		// publish.
		c.prime(ctx)

	case PhasePriming:
		c.prime(ctx)

	case PhaseEngaged:
		c.publish(ctx)
		c.arbitrate(ctx, status)
	}
}

// prime streams one setpoint toward the controller's "stream already
// active" entry precondition.
func (c *Controller) prime(ctx context.Context) {
	c.publish(ctx)
	c.primeCount++
	if c.primeCount >= c.cfg.PrimingCycles {
		_ = c.machine.Event(ctx, EventPrimed)
	}
}

func (c *Controller) publish(ctx context.Context) {
	if err := c.pub.Publish(ctx, c.target.Current()); err != nil {
		// The stream keeps its cadence; a dropped sample is tolerable,
		// a stalled loop is not.
		log.Warn("Setpoint publish failed", err)
	}
}

// commandKind is the outcome of the engage-phase decision table.
type commandKind int

const (
	commandNone commandKind = iota
	commandSetMode
	commandArm
)

// decide implements the engage decision table:
//
//	cooldown not elapsed                      -> none
//	mode != target                            -> set-mode
//	mode == target, not armed                 -> arm
//	mode == target, armed                     -> none
//
// One cooldown timer gates both kinds, so the two never fire within the
// same window and never both in one cycle.
func (c *Controller) decide(status flightlinkv1.VehicleStatus, now time.Time) commandKind {
	if !c.cooldownElapsed(now) {
		return commandNone
	}
	if status.Mode != c.cfg.TargetMode {
		return commandSetMode
	}
	if !status.Armed {
		return commandArm
	}
	return commandNone
}

func (c *Controller) cooldownElapsed(now time.Time) bool {
	return c.lastRequest.IsZero() || now.Sub(c.lastRequest) >= c.cfg.CommandCooldown
}

// arbitrate issues at most one command per cycle. The cooldown restarts on
// every attempt, accepted or not; state progress is observed only through
// the status feed, never assumed locally.
func (c *Controller) arbitrate(ctx context.Context, status flightlinkv1.VehicleStatus) {
	now := c.now()

	switch c.decide(status, now) {
	case commandSetMode:
		accepted := c.cmd.RequestModeChange(ctx, c.cfg.TargetMode)
		c.lastRequest = now
		log.Info("Requested mode change", "mode", c.cfg.TargetMode, "accepted", accepted, "currentMode", status.Mode)

	case commandArm:
		accepted := c.cmd.RequestArm(ctx, true)
		c.lastRequest = now
		log.Info("Requested arming", "accepted", accepted)

	case commandNone:
		// Within cooldown, or already armed in the target mode. Either
		// way this cycle only streamed the setpoint.
	}
}
