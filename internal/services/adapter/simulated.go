package adapter

import (
	"context"
	"log/slog"

	"github.com/greenhouse-lab/enviroctl/internal/model"
)

// SimulatedActuator logs commands instead of delivering them. Used in tests
// and simulated deployments.
type SimulatedActuator struct {
	logger *slog.Logger
}

func NewSimulatedActuator(logger *slog.Logger) *SimulatedActuator {
	return &SimulatedActuator{logger: logger.With("component", "actuator-simulated")}
}

func (s *SimulatedActuator) Name() string { return ActuatorSimulated }

func (s *SimulatedActuator) ApplyCommands(_ context.Context, deviceID string, cmds []model.ActuatorCommand) error {
	for _, c := range cmds {
		s.logger.Info("apply command", "device", deviceID, "actuator", c.Actuator, "action", c.Action)
	}
	return nil
}

// LogNotifier writes notifications to the log.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "notifier-log")}
}

func (n *LogNotifier) Name() string { return NotifierLog }

func (n *LogNotifier) Notify(_ context.Context, deviceID, title, message string) error {
	n.logger.Warn("notification", "device", deviceID, "title", title, "message", message)
	return nil
}
