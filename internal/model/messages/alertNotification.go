package messages

import "time"

// AlertNotification is appended by the alert evaluator for every rule that
// matches a reading. Records are append-only and never mutated.
type AlertNotification struct {
	ID        string    `json:"id"`
	DeviceID  string    `json:"device_id"`
	RuleID    string    `json:"rule_id"`
	Value     float64   `json:"value"` // the triggering reading value
	Timestamp time.Time `json:"timestamp"`
}
