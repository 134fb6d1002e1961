package strategy

import "github.com/greenhouse-lab/enviroctl/internal/model"

// KeyHysteresisCooling selects the threshold-band cooling strategy.
const KeyHysteresisCooling = "hysteresis-cooling"

// Parameter keys read by Hysteresis, with their built-in defaults.
const (
	ParamOnAbove  = "onAbove"
	ParamOffBelow = "offBelow"

	defaultOnAbove  = 26.0
	defaultOffBelow = 24.0
)

// Hysteresis turns the fan on at or above onAbove and off at or below
// offBelow. Between the two thresholds it emits nothing, so the fan does not
// oscillate while the temperature sits inside the band.
type Hysteresis struct{}

func (Hysteresis) Key() string { return KeyHysteresisCooling }

func (Hysteresis) Evaluate(ctx Context, params model.Parameters) []model.ActuatorCommand {
	v, ok := ctx.Value(model.KindTemperature)
	if !ok {
		return nil
	}
	switch {
	case v >= params.Get(ParamOnAbove, defaultOnAbove):
		return []model.ActuatorCommand{{Actuator: ActuatorFan, Action: model.ActionOn}}
	case v <= params.Get(ParamOffBelow, defaultOffBelow):
		return []model.ActuatorCommand{{Actuator: ActuatorFan, Action: model.ActionOff}}
	default:
		return nil
	}
}
