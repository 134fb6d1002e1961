package controller

import (
	"time"

	"github.com/greenhouse-lab/enviroctl/internal/model"
	"github.com/greenhouse-lab/enviroctl/internal/services/strategy"
)

// ParamAlarmAbove is the profile parameter holding the critical temperature.
// A device without this parameter never enters Alarm.
const ParamAlarmAbove = "alarmAbove"

// tickContext is the per-tick aggregate a mode behavior decides on: the
// device's latest reading per sensor kind plus its resolved strategy and
// parameters. It is built fresh for every tick and discarded afterwards.
type tickContext struct {
	device   model.Device
	mode     model.Mode
	readings map[model.SensorKind]model.ReadingEvent
	strat    strategy.Strategy
	params   model.Parameters
	now      time.Time
}

func (tc tickContext) strategyContext() strategy.Context {
	return strategy.Context{DeviceID: tc.device.ID, Readings: tc.readings}
}

func (tc tickContext) value(kind model.SensorKind) (float64, bool) {
	evt, ok := tc.readings[kind]
	if !ok {
		return 0, false
	}
	return evt.Value, true
}

// alarmActive reports whether the critical condition holds: the latest
// temperature at or above the alarmAbove parameter.
func (tc tickContext) alarmActive() bool {
	limit, ok := tc.params[ParamAlarmAbove]
	if !ok {
		return false
	}
	v, ok := tc.value(model.KindTemperature)
	if !ok {
		return false
	}
	return v >= limit
}

// evaluate runs the resolved strategy against this tick's context.
func (tc tickContext) evaluate() []model.ActuatorCommand {
	return tc.strat.Evaluate(tc.strategyContext(), tc.params)
}
