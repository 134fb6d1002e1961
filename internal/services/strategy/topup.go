package strategy

import "github.com/greenhouse-lab/enviroctl/internal/model"

// KeyMoistureTopUp selects the low-value top-up strategy.
const KeyMoistureTopUp = "moisture-topup"

const (
	ParamMinLevel = "minLevel"

	defaultMinLevel = 30.0
)

// TopUp runs the pump whenever the moisture level sits below minLevel and
// stops it otherwise.
type TopUp struct{}

func (TopUp) Key() string { return KeyMoistureTopUp }

func (TopUp) Evaluate(ctx Context, params model.Parameters) []model.ActuatorCommand {
	v, ok := ctx.Value(model.KindMoisture)
	if !ok {
		return nil
	}
	if v < params.Get(ParamMinLevel, defaultMinLevel) {
		return []model.ActuatorCommand{{Actuator: ActuatorPump, Action: model.ActionOn}}
	}
	return []model.ActuatorCommand{{Actuator: ActuatorPump, Action: model.ActionOff}}
}
