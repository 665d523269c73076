package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*OffboardOptions)(nil)

// failsafeWindow is the controller's setpoint-staleness window. A cadence
// period at or above this disengages offboard mode in flight.
const failsafeWindow = 500 * time.Millisecond

// OffboardOptions holds the arbitration policy of the offboard controller.
type OffboardOptions struct {
	// TargetMode is the flight mode the controller drives the vehicle into.
	TargetMode string `json:"target-mode" mapstructure:"target-mode"`

	// CadencePeriod is the interval between control cycles. Each cycle
	// republishes the current setpoint, so this must stay well below the
	// controller's 500ms staleness failsafe.
	CadencePeriod time.Duration `json:"cadence-period" mapstructure:"cadence-period"`

	// PrimingCycles is the number of setpoints streamed before the first
	// mode-change request. The controller refuses to enter offboard mode
	// without an already-active setpoint stream.
	PrimingCycles int `json:"priming-cycles" mapstructure:"priming-cycles"`

	// CommandCooldown is the minimum interval between command attempts.
	// Shared by mode-change and arm requests.
	CommandCooldown time.Duration `json:"command-cooldown" mapstructure:"command-cooldown"`
}

// NewOffboardOptions creates an OffboardOptions with default values.
func NewOffboardOptions() *OffboardOptions {
	return &OffboardOptions{
		TargetMode:      "OFFBOARD",
		CadencePeriod:   50 * time.Millisecond, // 20 Hz
		PrimingCycles:   100,
		CommandCooldown: 5 * time.Second,
	}
}

// Validate is used to parse and validate the parameters entered by the user
// at the command line when the program starts.
func (o *OffboardOptions) Validate() []error {
	var errors []error

	if o.TargetMode == "" {
		errors = append(errors, fmt.Errorf("offboard.target-mode must not be empty"))
	}
	if o.CadencePeriod <= 0 {
		errors = append(errors, fmt.Errorf("offboard.cadence-period must be positive"))
	} else if o.CadencePeriod >= failsafeWindow {
		errors = append(errors, fmt.Errorf("offboard.cadence-period %s breaches the %s setpoint failsafe window", o.CadencePeriod, failsafeWindow))
	}
	if o.PrimingCycles <= 0 {
		errors = append(errors, fmt.Errorf("offboard.priming-cycles must be positive"))
	}
	if o.CommandCooldown <= 0 {
		errors = append(errors, fmt.Errorf("offboard.command-cooldown must be positive"))
	}

	return errors
}

// AddFlags adds flags for OffboardOptions to the specified FlagSet.
func (o *OffboardOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.TargetMode, "offboard.target-mode", o.TargetMode, "Flight mode to drive the vehicle into.")
	fs.DurationVar(&o.CadencePeriod, "offboard.cadence-period", o.CadencePeriod, "Interval between control cycles (setpoint republish rate).")
	fs.IntVar(&o.PrimingCycles, "offboard.priming-cycles", o.PrimingCycles, "Setpoint cycles streamed before the first mode-change request.")
	fs.DurationVar(&o.CommandCooldown, "offboard.command-cooldown", o.CommandCooldown, "Minimum interval between command attempts (shared by mode-change and arm).")
}
