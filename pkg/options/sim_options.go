package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*SimOptions)(nil)

// SimOptions holds the simulated flight controller's behavior knobs.
type SimOptions struct {
	// InitialMode is the flight mode the simulated controller boots into.
	InitialMode string `json:"initial-mode" mapstructure:"initial-mode"`

	// FallbackMode is the mode the failsafe drops into when the setpoint
	// stream goes stale while in offboard mode.
	FallbackMode string `json:"fallback-mode" mapstructure:"fallback-mode"`

	// StatusPeriod is the interval between status publications.
	StatusPeriod time.Duration `json:"status-period" mapstructure:"status-period"`
}

// NewSimOptions creates a SimOptions with default values.
func NewSimOptions() *SimOptions {
	return &SimOptions{
		InitialMode:  "MANUAL",
		FallbackMode: "POSCTL",
		StatusPeriod: 200 * time.Millisecond,
	}
}

// Validate is used to parse and validate the parameters entered by the user
// at the command line when the program starts.
func (o *SimOptions) Validate() []error {
	var errors []error

	if o.InitialMode == "" {
		errors = append(errors, fmt.Errorf("sim.initial-mode must not be empty"))
	}
	if o.FallbackMode == "" {
		errors = append(errors, fmt.Errorf("sim.fallback-mode must not be empty"))
	}
	if o.StatusPeriod <= 0 {
		errors = append(errors, fmt.Errorf("sim.status-period must be positive"))
	}

	return errors
}

// AddFlags adds flags for SimOptions to the specified FlagSet.
func (o *SimOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.InitialMode, "sim.initial-mode", o.InitialMode, "Flight mode the simulated controller boots into.")
	fs.StringVar(&o.FallbackMode, "sim.fallback-mode", o.FallbackMode, "Mode the failsafe drops into when the setpoint stream stalls.")
	fs.DurationVar(&o.StatusPeriod, "sim.status-period", o.StatusPeriod, "Interval between simulated status publications.")
}
