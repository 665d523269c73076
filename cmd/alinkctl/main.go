// alinkctl is the operator's command-line tool: it inspects the vehicle
// fleet over the same MQTT namespace the agents use.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aerolink-io/aerolink/pkg/log"
	"github.com/aerolink-io/aerolink/pkg/options"
)

func main() {
	mqttOpts := options.NewMqttOptions()

	logOpts := log.NewOptions()
	logOpts.Level = "warn" // keep command output clean

	root := &cobra.Command{
		Use:           "alinkctl",
		Short:         "Inspect and interact with the Aerolink fleet",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Init(logOpts)
		},
	}
	mqttOpts.AddFlags(root.PersistentFlags())

	root.AddCommand(
		newStatusCmd(mqttOpts),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
