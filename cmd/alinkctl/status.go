package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	flightlinkv1 "github.com/aerolink-io/aerolink/api/flightlink/v1"
	"github.com/aerolink-io/aerolink/pkg/mqtt"
	mqtttopic "github.com/aerolink-io/aerolink/pkg/mqtt/topic"
	"github.com/aerolink-io/aerolink/pkg/options"
)

func newStatusCmd(mqttOpts *options.MqttOptions) *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "status [vehicle-id]",
		Short: "Show the last-known status of one vehicle or the whole fleet",
		Long: `Reads the retained status records from the telemetry namespace. With a
vehicle ID only that vehicle is shown; without one, every vehicle that has
ever published a retained status within the wait window is listed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vehicleID := ""
			if len(args) == 1 {
				vehicleID = args[0]
			}
			return runStatus(cmd.Context(), mqttOpts, vehicleID, wait)
		},
	}

	cmd.Flags().DurationVar(&wait, "wait", 2*time.Second, "How long to collect retained status records.")

	return cmd
}

func runStatus(ctx context.Context, mqttOpts *options.MqttOptions, vehicleID string, wait time.Duration) error {
	cfg := mqttOpts.ToClientConfig()
	if cfg.ClientID == "" {
		cfg.ClientID = fmt.Sprintf("alinkctl-%d", time.Now().UnixNano())
	}

	mc, err := mqtt.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to init mqtt client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, wait+cfg.ConnectTimeout)
	defer cancel()

	if err := mc.Start(ctx); err != nil {
		return err
	}
	defer mc.Disconnect(context.Background())

	if err := mc.AwaitConnection(ctx); err != nil {
		return fmt.Errorf("broker connection not established: %w", err)
	}

	topics := mqtttopic.NewBuilder(mqttOpts.TopicRoot)
	filter := topics.StatusWildcard()
	if vehicleID != "" {
		filter = topics.Status(vehicleID)
	}

	var mu sync.Mutex
	statuses := map[string]flightlinkv1.VehicleStatus{}
	first := make(chan struct{}, 1)

	handler := func(ctx context.Context, topic string, payload []byte) {
		var st flightlinkv1.VehicleStatus
		if err := json.Unmarshal(payload, &st); err != nil {
			return
		}
		mu.Lock()
		statuses[st.VehicleID] = st
		mu.Unlock()

		select {
		case first <- struct{}{}:
		default:
		}
	}

	if err := mc.Subscribe(ctx, filter, 1, handler); err != nil {
		return err
	}

	// A single vehicle needs only its one retained record; the fleet view
	// collects for the whole window.
	if vehicleID != "" {
		select {
		case <-first:
		case <-ctx.Done():
			return fmt.Errorf("no status for vehicle %q (is it registered?)", vehicleID)
		}
	} else {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
		}
	}

	mu.Lock()
	defer mu.Unlock()

	if len(statuses) == 0 {
		fmt.Println("No vehicles found.")
		return nil
	}

	ids := make([]string, 0, len(statuses))
	for id := range statuses {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	table := uitable.New()
	table.AddRow("VEHICLE", "CONNECTED", "ARMED", "MODE")
	for _, id := range ids {
		st := statuses[id]
		table.AddRow(st.VehicleID, st.Connected, st.Armed, st.Mode)
	}
	fmt.Println(table)

	return nil
}
