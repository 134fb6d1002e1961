package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/greenhouse-lab/enviroctl/internal/model"
	"github.com/greenhouse-lab/enviroctl/pkg/mqttbus"
)

// MQTTActuator publishes the command list on a per-device topic at QoS 1.
// The device endpoint (or a bridge) consumes the topic.
type MQTTActuator struct {
	pub       mqttbus.IPublisher
	topicTmpl string // e.g. "actuator/command/{device}"
	logger    *slog.Logger
}

func NewMQTTActuator(pub mqttbus.IPublisher, topicTmpl string, logger *slog.Logger) *MQTTActuator {
	if strings.TrimSpace(topicTmpl) == "" {
		topicTmpl = "actuator/command/{device}"
	}
	return &MQTTActuator{
		pub:       pub,
		topicTmpl: topicTmpl,
		logger:    logger.With("component", "actuator-mqtt"),
	}
}

func (m *MQTTActuator) Name() string { return ActuatorMQTT }

// ApplyCommands publishes one CommandMessage. The ctx deadline bounds the
// wait for the broker acknowledgement, so a wedged broker cannot stall a
// tick.
func (m *MQTTActuator) ApplyCommands(ctx context.Context, deviceID string, cmds []model.ActuatorCommand) error {
	msg := model.CommandMessage{DeviceID: deviceID, Commands: cmds, Timestamp: time.Now().UTC()}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode commands: %w", err)
	}
	topic := strings.ReplaceAll(m.topicTmpl, "{device}", deviceID)
	if err := m.pub.Publish(ctx, topic, 1, payload); err != nil {
		return fmt.Errorf("deliver commands: %w", err)
	}
	m.logger.Debug("commands published", "device", deviceID, "topic", topic, "count", len(cmds))
	return nil
}
