package options

import (
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*FlightLinkOptions)(nil)

// FlightLinkOptions configures the gRPC connection to the flight-link
// command endpoint.
type FlightLinkOptions struct {
	// Addr is the flight-link gRPC address.
	Addr string `json:"addr" mapstructure:"addr"`

	// CommandTimeout bounds each SetMode/Arm call. A hung call stalls the
	// publishing cycle that issued it, so this must stay well below the
	// controller's setpoint-staleness failsafe window.
	CommandTimeout time.Duration `json:"command-timeout" mapstructure:"command-timeout"`
}

// NewFlightLinkOptions creates a FlightLinkOptions with default values.
func NewFlightLinkOptions() *FlightLinkOptions {
	return &FlightLinkOptions{
		Addr:           "127.0.0.1:9320",
		CommandTimeout: 200 * time.Millisecond,
	}
}

// Validate is used to parse and validate the parameters entered by the user
// at the command line when the program starts.
func (o *FlightLinkOptions) Validate() []error {
	var errors []error

	if err := ValidateAddress(o.Addr); err != nil {
		errors = append(errors, err)
	}

	return errors
}

// AddFlags adds flags for FlightLinkOptions to the specified FlagSet.
func (o *FlightLinkOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Addr, "flightlink.addr", o.Addr, "Address of the flight-link command gRPC endpoint.")
	fs.DurationVar(&o.CommandTimeout, "flightlink.command-timeout", o.CommandTimeout, "Per-call timeout for SetMode/Arm requests.")
}
