package messages

import (
	"time"

	"github.com/greenhouse-lab/enviroctl/internal/model/entities"
)

// CommandMessage is the wire shape used by the HTTP and MQTT actuator
// adapters to carry one tick's command list to a device endpoint.
type CommandMessage struct {
	DeviceID  string                     `json:"device_id"`
	Commands  []entities.ActuatorCommand `json:"commands"`
	Timestamp time.Time                  `json:"timestamp"`
}
