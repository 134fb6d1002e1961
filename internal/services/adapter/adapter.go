// Package adapter is the protocol-translation boundary: it converts abstract
// actuator commands and notifications into concrete delivery mechanisms.
// Implementations must tolerate repeated identical commands and never block
// the caller beyond the context deadline they are given.
package adapter

import (
	"context"

	"github.com/greenhouse-lab/enviroctl/internal/model"
)

// ActuatorAdapter delivers one tick's command list to a device.
type ActuatorAdapter interface {
	Name() string
	ApplyCommands(ctx context.Context, deviceID string, cmds []model.ActuatorCommand) error
}

// Notifier delivers out-of-band notifications, e.g. on entering Alarm.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, deviceID, title, message string) error
}

// Modes accepted by the runtime adapter switch.
const (
	ActuatorSimulated = "simulated"
	ActuatorHTTP      = "http"
	ActuatorMQTT      = "mqtt"

	NotifierLog   = "log"
	NotifierKafka = "kafka"
)
