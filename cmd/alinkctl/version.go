package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aerolink-io/aerolink/internal/pkg/util/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the alinkctl version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.Get())
		},
	}
}
