package messages

import "time"

// NotificationMessage is the out-of-band payload delivered by notification
// adapters, e.g. when a device enters the Alarm mode.
type NotificationMessage struct {
	DeviceID  string    `json:"device_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
