package agent

import (
	"fmt"

	flightlinkv1 "github.com/aerolink-io/aerolink/api/flightlink/v1"
	"github.com/aerolink-io/aerolink/internal/agent/command"
	"github.com/aerolink-io/aerolink/internal/agent/offboard"
	"github.com/aerolink-io/aerolink/internal/agent/setpoint"
	"github.com/aerolink-io/aerolink/internal/agent/telemetry"
	"github.com/aerolink-io/aerolink/pkg/mqtt"
	mqtttopic "github.com/aerolink-io/aerolink/pkg/mqtt/topic"
	"github.com/aerolink-io/aerolink/pkg/options"
)

// Config carries everything the agent needs to assemble its components.
type Config struct {
	VehicleID       string
	InitialSetpoint flightlinkv1.Setpoint

	MqttOptions       *options.MqttOptions
	FlightLinkOptions *options.FlightLinkOptions
	HttpOptions       *options.HttpOptions
	OffboardOptions   *options.OffboardOptions
}

// NewAgent assembles the agent from the configuration.
func (cfg *Config) NewAgent() (*Agent, error) {
	if cfg.VehicleID == "" {
		return nil, fmt.Errorf("FATAL: vehicle ID must be set")
	}

	mqttClient, topicBuilder, err := cfg.initMqttClientAndTopicBuilder()
	if err != nil {
		return nil, fmt.Errorf("failed to init mqtt client: %w", err)
	}

	cache := telemetry.NewCache()
	feed := telemetry.NewFeed(cfg.VehicleID, mqttClient, topicBuilder, cache)

	source := setpoint.NewSource(cfg.InitialSetpoint)
	publisher := setpoint.NewPublisher(cfg.VehicleID, mqttClient, topicBuilder)

	gateway, err := command.NewGateway(cfg.FlightLinkOptions.Addr, cfg.VehicleID, cfg.FlightLinkOptions.CommandTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to init flight-link gateway: %w", err)
	}

	controller := offboard.NewController(offboard.Config{
		TargetMode:      cfg.OffboardOptions.TargetMode,
		CadencePeriod:   cfg.OffboardOptions.CadencePeriod,
		PrimingCycles:   cfg.OffboardOptions.PrimingCycles,
		CommandCooldown: cfg.OffboardOptions.CommandCooldown,
	}, cache, source, publisher, gateway)

	return NewAgent(
		cfg.VehicleID,
		mqttClient,
		feed,
		gateway,
		controller,
		newHTTPServer(cfg.HttpOptions, mqttClient),
	), nil
}

func (cfg *Config) initMqttClientAndTopicBuilder() (mqtt.Client, *mqtttopic.Builder, error) {
	topicBuilder := mqtttopic.NewBuilder(cfg.MqttOptions.TopicRoot)

	mqttConfig := cfg.MqttOptions.ToClientConfig()
	if mqttConfig.ClientID == "" {
		mqttConfig.ClientID = fmt.Sprintf("alink-agent-%s", cfg.VehicleID)
	}

	mqttClient, err := mqtt.NewClient(mqttConfig)
	if err != nil {
		return nil, nil, err
	}

	return mqttClient, topicBuilder, nil
}
