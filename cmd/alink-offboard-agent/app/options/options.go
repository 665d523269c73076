package options

import (
	"fmt"

	"github.com/spf13/pflag"

	flightlinkv1 "github.com/aerolink-io/aerolink/api/flightlink/v1"
	"github.com/aerolink-io/aerolink/internal/agent"
	"github.com/aerolink-io/aerolink/pkg/app"
	"github.com/aerolink-io/aerolink/pkg/log"
	"github.com/aerolink-io/aerolink/pkg/options"
)

// AgentOptions contains the full configuration of the offboard agent.
type AgentOptions struct {
	// VehicleID identifies the vehicle this agent controls. Required.
	VehicleID string `json:"vehicle-id" mapstructure:"vehicle-id"`

	// SetpointX/Y/Z form the initial position target streamed until a
	// planner retargets the vehicle.
	SetpointX float64 `json:"setpoint-x" mapstructure:"setpoint-x"`
	SetpointY float64 `json:"setpoint-y" mapstructure:"setpoint-y"`
	SetpointZ float64 `json:"setpoint-z" mapstructure:"setpoint-z"`

	MqttOptions       *options.MqttOptions       `json:"mqtt" mapstructure:"mqtt"`
	FlightLinkOptions *options.FlightLinkOptions `json:"flightlink" mapstructure:"flightlink"`
	HttpOptions       *options.HttpOptions       `json:"http" mapstructure:"http"`
	OffboardOptions   *options.OffboardOptions   `json:"offboard" mapstructure:"offboard"`
	Log               *log.Options               `json:"log" mapstructure:"log"`
}

var _ app.CliOptions = (*AgentOptions)(nil)

func NewAgentOptions() *AgentOptions {
	return &AgentOptions{
		SetpointZ:         2.5, // hover a couple of meters up, never at ground level
		MqttOptions:       options.NewMqttOptions(),
		FlightLinkOptions: options.NewFlightLinkOptions(),
		HttpOptions:       options.NewHttpOptions(),
		OffboardOptions:   options.NewOffboardOptions(),
		Log:               log.NewOptions(),
	}
}

// AddFlags adds all agent flags to the given FlagSet.
func (o *AgentOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.VehicleID, "vehicle-id", o.VehicleID, "Identifier of the vehicle this agent controls.")
	fs.Float64Var(&o.SetpointX, "setpoint-x", o.SetpointX, "Initial setpoint X (meters, local frame).")
	fs.Float64Var(&o.SetpointY, "setpoint-y", o.SetpointY, "Initial setpoint Y (meters, local frame).")
	fs.Float64Var(&o.SetpointZ, "setpoint-z", o.SetpointZ, "Initial setpoint Z (meters, local frame).")

	o.MqttOptions.AddFlags(fs)
	o.FlightLinkOptions.AddFlags(fs)
	o.HttpOptions.AddFlags(fs)
	o.OffboardOptions.AddFlags(fs)
	o.Log.AddFlags(fs)
}

func (o *AgentOptions) Complete() error {
	return nil
}

func (o *AgentOptions) Validate() []error {
	var errs []error
	if o.VehicleID == "" {
		errs = append(errs, fmt.Errorf("--vehicle-id is required"))
	}
	errs = append(errs, o.MqttOptions.Validate()...)
	errs = append(errs, o.FlightLinkOptions.Validate()...)
	errs = append(errs, o.HttpOptions.Validate()...)
	errs = append(errs, o.OffboardOptions.Validate()...)
	errs = append(errs, o.Log.Validate()...)
	return errs
}

// Config builds the runnable agent configuration from the validated options.
func (o *AgentOptions) Config() (*agent.Config, error) {
	return &agent.Config{
		VehicleID: o.VehicleID,
		InitialSetpoint: flightlinkv1.Setpoint{
			X: o.SetpointX,
			Y: o.SetpointY,
			Z: o.SetpointZ,
		},
		MqttOptions:       o.MqttOptions,
		FlightLinkOptions: o.FlightLinkOptions,
		HttpOptions:       o.HttpOptions,
		OffboardOptions:   o.OffboardOptions,
	}, nil
}
