package entities

// ActuatorAction is the desired on/off state of an actuator.
type ActuatorAction string

const (
	ActionOn  ActuatorAction = "on"
	ActionOff ActuatorAction = "off"
)

// ActuatorCommand is produced fresh on every tick and never persisted; only
// the effect of issuing it is recorded downstream.
type ActuatorCommand struct {
	Actuator string         `json:"actuator"`
	Action   ActuatorAction `json:"action"`
}
