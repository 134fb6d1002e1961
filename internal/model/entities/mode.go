package entities

import "time"

// Mode is the operating behavior of a device.
type Mode string

const (
	ModeIdle       Mode = "Idle"
	ModeCooling    Mode = "Cooling"
	ModeIrrigating Mode = "Irrigating"
	ModeAlarm      Mode = "Alarm"
)

// DeviceModeSnapshot records one mode transition. History is append-only;
// the current mode of a device is its most recent snapshot, or Idle when no
// snapshot exists yet.
type DeviceModeSnapshot struct {
	ID        string    `json:"id"`
	DeviceID  string    `json:"device_id"`
	Mode      Mode      `json:"mode"`
	EnteredAt time.Time `json:"entered_at"`
	Note      string    `json:"note,omitempty"`
}
