// Package simulator models a greenhouse zone well enough to exercise the
// control loop end to end: temperature drifts toward ambient unless the fan
// runs, soil moisture evaporates unless the pump runs.
package simulator

import (
	"math"
	"sync"
	"time"
)

const (
	// coolPerMin is the temperature drop per minute while the fan is on.
	coolPerMin = 0.4
	// wetPerMin is the moisture gain per minute while the pump is on,
	// in percentage points.
	wetPerMin = 0.8
)

// Generator keeps the physical state of one simulated zone and advances it
// on every sample. Safe for concurrent use; command handling and sampling
// run on different goroutines.
type Generator struct {
	mu          sync.Mutex
	last        time.Time
	temperature float64 // °C
	moisture    float64 // percent, 0..100
	ambient     float64 // °C the zone relaxes toward when the fan is off
	driftPerMin float64 // relaxation rate toward ambient
	decayPerMin float64 // moisture loss per minute when the pump is off
	fanOn       bool
	pumpOn      bool
	now         func() time.Time
}

type GeneratorConfig struct {
	StartTemperature float64
	StartMoisture    float64
	Ambient          float64
	DriftPerMin      float64
	DecayPerMin      float64
}

func NewGenerator(cfg GeneratorConfig) *Generator {
	g := &Generator{
		temperature: cfg.StartTemperature,
		moisture:    clampPercent(cfg.StartMoisture),
		ambient:     cfg.Ambient,
		driftPerMin: math.Max(0, cfg.DriftPerMin),
		decayPerMin: math.Max(0, cfg.DecayPerMin),
		now:         time.Now,
	}
	g.last = g.now().UTC()
	return g
}

// SetFan and SetPump reflect delivered actuator commands into the model.
func (g *Generator) SetFan(on bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.advanceLocked(g.now().UTC())
	g.fanOn = on
}

func (g *Generator) SetPump(on bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.advanceLocked(g.now().UTC())
	g.pumpOn = on
}

// Sample advances the model to now and returns the current temperature and
// moisture.
func (g *Generator) Sample() (temperature, moisture float64, at time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	at = g.now().UTC()
	g.advanceLocked(at)
	return g.temperature, g.moisture, at
}

func (g *Generator) advanceLocked(now time.Time) {
	dtMin := now.Sub(g.last).Minutes()
	if dtMin <= 0 {
		g.last = now
		return
	}
	g.last = now

	if g.fanOn {
		g.temperature -= coolPerMin * dtMin
	} else {
		// Exponential relaxation toward ambient.
		g.temperature = g.ambient + (g.temperature-g.ambient)*math.Exp(-g.driftPerMin*dtMin)
	}

	if g.pumpOn {
		g.moisture = clampPercent(g.moisture + wetPerMin*dtMin)
	} else {
		g.moisture = clampPercent(g.moisture - g.decayPerMin*dtMin)
	}
}

func clampPercent(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 100 {
		return 100
	}
	return x
}
