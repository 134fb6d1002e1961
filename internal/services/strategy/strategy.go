// Package strategy holds the pure decision algorithms that turn sensor
// context into actuator commands, plus the per-device selector.
package strategy

import "github.com/greenhouse-lab/enviroctl/internal/model"

// Actuator names shared by the built-in strategies and the mode behaviors.
const (
	ActuatorFan  = "Fan"
	ActuatorPump = "Pump"
)

// Context carries the sensor values a strategy may consult, keyed by kind.
// It is built per tick and discarded afterwards.
type Context struct {
	DeviceID string
	Readings map[model.SensorKind]model.ReadingEvent
}

// Value returns the latest reading value for kind.
func (c Context) Value(kind model.SensorKind) (float64, bool) {
	evt, ok := c.Readings[kind]
	if !ok {
		return 0, false
	}
	return evt.Value, true
}

// Strategy is a pure decision algorithm: identical context and parameters
// always produce the same command list. No I/O, no hidden state.
type Strategy interface {
	Key() string
	Evaluate(ctx Context, params model.Parameters) []model.ActuatorCommand
}

// Catalog maps strategy keys to their implementations. A single shared
// instance per strategy is safe across devices because strategies carry no
// per-device state.
type Catalog struct {
	byKey map[string]Strategy
}

func NewCatalog(strategies ...Strategy) *Catalog {
	c := &Catalog{byKey: make(map[string]Strategy, len(strategies))}
	for _, s := range strategies {
		c.byKey[s.Key()] = s
	}
	return c
}

// DefaultCatalog returns a catalog with the built-in strategies.
func DefaultCatalog() *Catalog {
	return NewCatalog(Hysteresis{}, TopUp{})
}

func (c *Catalog) Get(key string) (Strategy, bool) {
	s, ok := c.byKey[key]
	return s, ok
}
