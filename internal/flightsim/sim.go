package flightsim

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	flightlinkv1 "github.com/aerolink-io/aerolink/api/flightlink/v1"
	"github.com/aerolink-io/aerolink/pkg/log"
	"github.com/aerolink-io/aerolink/pkg/mqtt"
	mqtttopic "github.com/aerolink-io/aerolink/pkg/mqtt/topic"
	"github.com/aerolink-io/aerolink/pkg/options"
)

// Config carries everything the simulator needs to assemble its components.
type Config struct {
	VehicleID string

	MqttOptions *options.MqttOptions
	GrpcOptions *options.GrpcOptions
	HttpOptions *options.HttpOptions
	SimOptions  *options.SimOptions
}

// Simulator is one simulated vehicle: the command service, the status
// publisher and the setpoint sink, sharing one State.
type Simulator struct {
	vehicleID    string
	statusPeriod time.Duration

	state  *State
	mc     mqtt.Client
	topics *mqtttopic.Builder

	commandSrv *commandServer
	healthSrv  *healthServer
}

// NewSimulator assembles the simulator from the configuration.
func (cfg *Config) NewSimulator() (*Simulator, error) {
	if cfg.VehicleID == "" {
		return nil, fmt.Errorf("FATAL: vehicle ID must be set")
	}

	state := NewState(cfg.VehicleID, cfg.SimOptions.InitialMode, cfg.SimOptions.FallbackMode)
	topicBuilder := mqtttopic.NewBuilder(cfg.MqttOptions.TopicRoot)

	mqttConfig := cfg.MqttOptions.ToClientConfig()
	if mqttConfig.ClientID == "" {
		mqttConfig.ClientID = fmt.Sprintf("alink-flightsim-%s", cfg.VehicleID)
	}

	// If the simulator dies the controller link is gone; the will flips the
	// retained status to disconnected so agents fall back to awaiting contact.
	offlinePayload, _ := json.Marshal(flightlinkv1.VehicleStatus{
		VehicleID: cfg.VehicleID,
		Connected: false,
		Armed:     false,
		Mode:      flightlinkv1.ModeUnknown,
	})
	mqttConfig.WillTopic = topicBuilder.Status(cfg.VehicleID)
	mqttConfig.WillPayload = offlinePayload
	mqttConfig.WillQoS = 1
	mqttConfig.WillRetain = true

	mqttClient, err := mqtt.NewClient(mqttConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to init mqtt client: %w", err)
	}

	return &Simulator{
		vehicleID:    cfg.VehicleID,
		statusPeriod: cfg.SimOptions.StatusPeriod,
		state:        state,
		mc:           mqttClient,
		topics:       topicBuilder,
		commandSrv:   newCommandServer(cfg.GrpcOptions, state),
		healthSrv:    newHealthServer(cfg.HttpOptions, mqttClient),
	}, nil
}

// Run starts the simulator and blocks until the context is cancelled or a
// component fails.
func (s *Simulator) Run(ctx context.Context) error {
	log.Info("Starting alink-flightsim", "vehicleID", s.vehicleID,
		"mode", s.state.Status().Mode, "statusPeriod", s.statusPeriod)

	if err := s.mc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start mqtt client: %w", err)
	}
	defer s.mc.Disconnect(context.Background())

	if err := s.mc.AwaitConnection(ctx); err != nil {
		return fmt.Errorf("broker connection not established: %w", err)
	}

	if err := s.mc.Subscribe(ctx, s.topics.Setpoint(s.vehicleID), 0, s.handleSetpoint); err != nil {
		return fmt.Errorf("failed to subscribe setpoint topic: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.commandSrv.Start(ctx)
	})
	g.Go(func() error {
		return s.statusLoop(ctx)
	})
	g.Go(func() error {
		return s.healthSrv.Start(ctx)
	})

	err := g.Wait()
	log.Info("Simulator shutting down...")
	return err
}

// handleSetpoint records each received sample. The payload content is not
// used for acceptance, only the arrival time; the sample is parsed for the
// debug log alone.
func (s *Simulator) handleSetpoint(ctx context.Context, topic string, payload []byte) {
	s.state.NoteSetpoint()

	var sp flightlinkv1.Setpoint
	if err := json.Unmarshal(payload, &sp); err != nil {
		log.Warn("Received malformed setpoint", "topic", topic, err)
		return
	}
	log.Debug("Setpoint received", "x", sp.X, "y", sp.Y, "z", sp.Z)
}

// statusLoop runs the failsafe check and publishes the retained status
// record every period. The retained flag makes the latest status available
// to agents the moment they subscribe.
func (s *Simulator) statusLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.statusPeriod)
	defer ticker.Stop()

	topic := s.topics.Status(s.vehicleID)

	for {
		select {
		case <-ctx.Done():
			// Leave a clean disconnected record behind instead of the will.
			s.publishOffline(topic)
			return nil
		case <-ticker.C:
			if tripped, reason := s.state.Tick(); tripped {
				log.Warn("Offboard failsafe tripped", "reason", reason, "fallbackMode", s.state.Status().Mode)
			}

			payload, err := json.Marshal(s.state.Status())
			if err != nil {
				return err
			}
			if err := s.mc.Publish(ctx, topic, 1, true, payload); err != nil {
				log.Warn("Status publish failed", err)
			}
		}
	}
}

func (s *Simulator) publishOffline(topic string) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	payload, _ := json.Marshal(flightlinkv1.VehicleStatus{
		VehicleID: s.vehicleID,
		Connected: false,
		Armed:     false,
		Mode:      flightlinkv1.ModeUnknown,
	})
	if err := s.mc.Publish(shutdownCtx, topic, 1, true, payload); err != nil {
		log.Warn("Offline status publish failed", err)
	}
}
