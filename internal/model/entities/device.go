package entities

import "errors"

// ErrDeviceNotFound is returned when a tick or capture names a device the
// registry does not know.
var ErrDeviceNotFound = errors.New("device not found")

// Device represents one controlled unit together with its actuators.
type Device struct {
	ID        string   `json:"id"` // unique device identifier
	Name      string   `json:"name,omitempty"`
	Zone      string   `json:"zone,omitempty"`
	Actuators []string `json:"actuators"` // e.g. "Fan", "Pump"
}

func (d *Device) HasActuator(name string) bool {
	for _, a := range d.Actuators {
		if a == name {
			return true
		}
	}
	return false
}
