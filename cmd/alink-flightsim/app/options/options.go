package options

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/aerolink-io/aerolink/internal/flightsim"
	"github.com/aerolink-io/aerolink/pkg/app"
	"github.com/aerolink-io/aerolink/pkg/log"
	"github.com/aerolink-io/aerolink/pkg/options"
)

// SimulatorOptions contains the full configuration of the flight-controller
// simulator.
type SimulatorOptions struct {
	// VehicleID identifies the simulated vehicle. Required.
	VehicleID string `json:"vehicle-id" mapstructure:"vehicle-id"`

	MqttOptions *options.MqttOptions `json:"mqtt" mapstructure:"mqtt"`
	GrpcOptions *options.GrpcOptions `json:"grpc" mapstructure:"grpc"`
	HttpOptions *options.HttpOptions `json:"http" mapstructure:"http"`
	SimOptions  *options.SimOptions  `json:"sim" mapstructure:"sim"`
	Log         *log.Options         `json:"log" mapstructure:"log"`
}

var _ app.CliOptions = (*SimulatorOptions)(nil)

func NewSimulatorOptions() *SimulatorOptions {
	o := &SimulatorOptions{
		MqttOptions: options.NewMqttOptions(),
		GrpcOptions: options.NewGrpcOptions(),
		HttpOptions: options.NewHttpOptions(),
		SimOptions:  options.NewSimOptions(),
		Log:         log.NewOptions(),
	}
	// The agent binds 8443 by default; keep the bench co-hostable.
	o.HttpOptions.Addr = "0.0.0.0:8444"
	return o
}

// AddFlags adds all simulator flags to the given FlagSet.
func (o *SimulatorOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.VehicleID, "vehicle-id", o.VehicleID, "Identifier of the simulated vehicle.")

	o.MqttOptions.AddFlags(fs)
	o.GrpcOptions.AddFlags(fs)
	o.HttpOptions.AddFlags(fs)
	o.SimOptions.AddFlags(fs)
	o.Log.AddFlags(fs)
}

func (o *SimulatorOptions) Complete() error {
	return nil
}

func (o *SimulatorOptions) Validate() []error {
	var errs []error
	if o.VehicleID == "" {
		errs = append(errs, fmt.Errorf("--vehicle-id is required"))
	}
	errs = append(errs, o.MqttOptions.Validate()...)
	errs = append(errs, o.GrpcOptions.Validate()...)
	errs = append(errs, o.HttpOptions.Validate()...)
	errs = append(errs, o.SimOptions.Validate()...)
	errs = append(errs, o.Log.Validate()...)
	return errs
}

// Config builds the runnable simulator configuration from the validated
// options.
func (o *SimulatorOptions) Config() (*flightsim.Config, error) {
	return &flightsim.Config{
		VehicleID:   o.VehicleID,
		MqttOptions: o.MqttOptions,
		GrpcOptions: o.GrpcOptions,
		HttpOptions: o.HttpOptions,
		SimOptions:  o.SimOptions,
	}, nil
}
