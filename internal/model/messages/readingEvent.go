package messages

import (
	"time"

	"github.com/greenhouse-lab/enviroctl/internal/model/entities"
)

// ReadingEvent is produced once per captured measurement and never mutated.
type ReadingEvent struct {
	DeviceID  string              `json:"device_id"`
	Kind      entities.SensorKind `json:"kind"`
	Value     float64             `json:"value"`
	Unit      string              `json:"unit,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
}
