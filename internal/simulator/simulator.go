package simulator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/greenhouse-lab/enviroctl/internal/model"
	"github.com/greenhouse-lab/enviroctl/pkg/dedup"
	"github.com/greenhouse-lab/enviroctl/pkg/mqttbus"
)

const (
	actuatorFan  = "Fan"
	actuatorPump = "Pump"
)

// Simulator publishes readings for one device at a fixed interval and applies
// incoming actuator commands to its generator.
type Simulator struct {
	deviceID  string
	topic     string
	generator *Generator
	publisher mqttbus.IPublisher
	consumer  mqttbus.IConsumer
	window    *dedup.Window
	logger    *slog.Logger
}

func New(deviceID string, gen *Generator, publisher mqttbus.IPublisher, consumer mqttbus.IConsumer, logger *slog.Logger) *Simulator {
	return &Simulator{
		deviceID:  deviceID,
		topic:     fmt.Sprintf("sensor/reading/%s", deviceID),
		generator: gen,
		publisher: publisher,
		consumer:  consumer,
		window:    dedup.NewWindow(2*time.Minute, 10000),
		logger:    logger.With("component", "simulator", "device", deviceID),
	}
}

// Run consumes actuator commands and publishes one temperature and one
// moisture reading per interval until ctx is cancelled.
func (s *Simulator) Run(ctx context.Context, interval time.Duration) {
	s.consumer.SetHandler(s.handleCommand)
	go s.consumer.Consume(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.publisher.Close()
			return
		case <-ticker.C:
			temp, moist, at := s.generator.Sample()
			s.publishReading(ctx, model.ReadingEvent{
				DeviceID: s.deviceID, Kind: model.KindTemperature,
				Value: temp, Unit: "°C", Timestamp: at,
			})
			s.publishReading(ctx, model.ReadingEvent{
				DeviceID: s.deviceID, Kind: model.KindMoisture,
				Value: moist, Unit: "%", Timestamp: at,
			})
		}
	}
}

func (s *Simulator) publishReading(ctx context.Context, evt model.ReadingEvent) {
	payload, err := json.Marshal(evt)
	if err != nil {
		s.logger.Error("marshal reading", "error", err)
		return
	}
	if err := s.publisher.Publish(ctx, s.topic, 1, payload); err != nil {
		s.logger.Error("publish reading", "kind", evt.Kind, "error", err)
		return
	}
	s.logger.Debug("reading published", "kind", evt.Kind, "value", evt.Value)
}

// handleCommand applies a delivered CommandMessage. QoS1 redeliveries carry
// the same payload and are dropped by hash.
func (s *Simulator) handleCommand(_ string, msg mqtt.Message) error {
	sum := sha256.Sum256(msg.Payload())
	if s.window.Observe(hex.EncodeToString(sum[:])) {
		return nil
	}

	var cmd model.CommandMessage
	if err := json.Unmarshal(msg.Payload(), &cmd); err != nil {
		return fmt.Errorf("invalid command message: %w", err)
	}
	if cmd.DeviceID != s.deviceID {
		return nil
	}
	for _, c := range cmd.Commands {
		on := c.Action == model.ActionOn
		switch c.Actuator {
		case actuatorFan:
			s.generator.SetFan(on)
		case actuatorPump:
			s.generator.SetPump(on)
		default:
			s.logger.Warn("unknown actuator in command", "actuator", c.Actuator)
			continue
		}
		s.logger.Info("actuator applied", "actuator", c.Actuator, "action", c.Action)
	}
	return nil
}
