package app

import (
	"fmt"

	"github.com/aerolink-io/aerolink/cmd/alink-flightsim/app/options"
	"github.com/aerolink-io/aerolink/internal/pkg/util/version"
	"github.com/aerolink-io/aerolink/pkg/app"
	"github.com/aerolink-io/aerolink/pkg/log"
)

const (
	commandName = "alink-flightsim"
	commandDesc = `The Aerolink flight simulator stands in for a real flight controller on
the bench: it publishes the retained vehicle status feed, consumes the
setpoint stream, serves the flight-link command service with its acceptance
rules, and enforces the setpoint-staleness failsafe.`
)

func NewApp() *app.App {
	opts := options.NewSimulatorOptions()
	application := app.NewApp(
		commandName,
		"Launch the Aerolink flight-controller simulator",
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithDefaultValidArgs(),
		app.WithRunFunc(run(opts)),
	)
	return application
}

func run(opts *options.SimulatorOptions) app.RunFunc {
	return func() error {
		log.Init(opts.Log)
		defer log.Sync()

		log.Info("Version info", "version", version.Get())

		ctx := app.SetupSignalContext()

		cfg, err := opts.Config()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		sim, err := cfg.NewSimulator()
		if err != nil {
			return fmt.Errorf("failed to create simulator: %w", err)
		}

		return sim.Run(ctx)
	}
}
