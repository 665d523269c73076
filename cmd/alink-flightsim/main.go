package main

import (
	"os"

	_ "go.uber.org/automaxprocs"

	"github.com/aerolink-io/aerolink/cmd/alink-flightsim/app"
)

func main() {
	if err := app.NewApp().Run(); err != nil {
		os.Exit(1)
	}
}
