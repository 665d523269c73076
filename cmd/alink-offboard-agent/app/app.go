package app

import (
	"fmt"

	"github.com/aerolink-io/aerolink/cmd/alink-offboard-agent/app/options"
	"github.com/aerolink-io/aerolink/internal/pkg/util/version"
	"github.com/aerolink-io/aerolink/pkg/app"
	"github.com/aerolink-io/aerolink/pkg/log"
)

const (
	commandName = "alink-offboard-agent"
	commandDesc = `The Aerolink offboard agent drives one vehicle into offboard flight: it
streams position setpoints over MQTT at a cadence the flight controller's
failsafe accepts, and arbitrates mode-change and arming requests over the
flight-link command service until the vehicle is armed in the target mode.`
)

func NewApp() *app.App {
	opts := options.NewAgentOptions()
	application := app.NewApp(
		commandName,
		"Launch the Aerolink offboard control agent",
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithDefaultValidArgs(),
		app.WithRunFunc(run(opts)),
	)
	return application
}

func run(opts *options.AgentOptions) app.RunFunc {
	return func() error {
		log.Init(opts.Log)
		defer log.Sync()

		log.Info("Version info", "version", version.Get())

		ctx := app.SetupSignalContext()

		cfg, err := opts.Config()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		agent, err := cfg.NewAgent()
		if err != nil {
			return fmt.Errorf("failed to create agent: %w", err)
		}

		return agent.Run(ctx)
	}
}
