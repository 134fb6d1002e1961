package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/greenhouse-lab/enviroctl/internal/model"
	"github.com/greenhouse-lab/enviroctl/pkg/mqttbus"
)

// Switch is the runtime seam between the engine and the concrete adapters:
// the engine holds the switch, so swapping implementations never touches
// strategy or engine code.
type Switch struct {
	mu       sync.RWMutex
	actuator ActuatorAdapter
	notifier Notifier
}

func NewSwitch(a ActuatorAdapter, n Notifier) *Switch {
	return &Switch{actuator: a, notifier: n}
}

func (s *Switch) SetActuator(a ActuatorAdapter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actuator = a
}

func (s *Switch) SetNotifier(n Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifier = n
}

func (s *Switch) ActuatorName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.actuator.Name()
}

func (s *Switch) NotifierName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notifier.Name()
}

func (s *Switch) ApplyCommands(ctx context.Context, deviceID string, cmds []model.ActuatorCommand) error {
	s.mu.RLock()
	a := s.actuator
	s.mu.RUnlock()
	return a.ApplyCommands(ctx, deviceID, cmds)
}

func (s *Switch) Notify(ctx context.Context, deviceID, title, message string) error {
	s.mu.RLock()
	n := s.notifier
	s.mu.RUnlock()
	return n.Notify(ctx, deviceID, title, message)
}

// Factory builds adapter instances for the runtime switch from the resources
// wired at startup.
type Factory struct {
	Logger        *slog.Logger
	HTTPTimeout   time.Duration
	MQTTPublisher mqttbus.IPublisher // nil when no broker is configured
	CommandTopic  string
	KafkaBrokers  []string
	KafkaTopic    string
}

func (f Factory) Actuator(mode, endpoint string) (ActuatorAdapter, error) {
	switch mode {
	case ActuatorSimulated:
		return NewSimulatedActuator(f.Logger), nil
	case ActuatorHTTP:
		if endpoint == "" {
			return nil, fmt.Errorf("http actuator requires an endpoint")
		}
		return NewHTTPActuator(endpoint, f.HTTPTimeout, f.Logger), nil
	case ActuatorMQTT:
		if f.MQTTPublisher == nil {
			return nil, fmt.Errorf("mqtt actuator requires a broker connection")
		}
		return NewMQTTActuator(f.MQTTPublisher, f.CommandTopic, f.Logger), nil
	}
	return nil, fmt.Errorf("unknown actuator mode %q", mode)
}

func (f Factory) Notifier(mode string) (Notifier, error) {
	switch mode {
	case NotifierLog:
		return NewLogNotifier(f.Logger), nil
	case NotifierKafka:
		return NewKafkaNotifier(f.KafkaBrokers, f.KafkaTopic, f.Logger)
	}
	return nil, fmt.Errorf("unknown notifier mode %q", mode)
}
