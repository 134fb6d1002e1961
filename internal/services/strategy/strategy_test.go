package strategy

import (
	"testing"
	"time"

	"github.com/greenhouse-lab/enviroctl/internal/model"
)

func ctxWith(kind model.SensorKind, value float64) Context {
	return Context{
		DeviceID: "dev-1",
		Readings: map[model.SensorKind]model.ReadingEvent{
			kind: {DeviceID: "dev-1", Kind: kind, Value: value, Timestamp: time.Now()},
		},
	}
}

func single(t *testing.T, cmds []model.ActuatorCommand) model.ActuatorCommand {
	t.Helper()
	if len(cmds) != 1 {
		t.Fatalf("expected exactly 1 command, got %v", cmds)
	}
	return cmds[0]
}

func TestHysteresisAboveBandTurnsFanOn(t *testing.T) {
	cmds := Hysteresis{}.Evaluate(ctxWith(model.KindTemperature, 27), model.Parameters{
		ParamOnAbove: 26, ParamOffBelow: 24,
	})
	c := single(t, cmds)
	if c.Actuator != ActuatorFan || c.Action != model.ActionOn {
		t.Fatalf("expected Fan on, got %+v", c)
	}
}

func TestHysteresisBelowBandTurnsFanOff(t *testing.T) {
	cmds := Hysteresis{}.Evaluate(ctxWith(model.KindTemperature, 23), model.Parameters{
		ParamOnAbove: 26, ParamOffBelow: 24,
	})
	c := single(t, cmds)
	if c.Actuator != ActuatorFan || c.Action != model.ActionOff {
		t.Fatalf("expected Fan off, got %+v", c)
	}
}

func TestHysteresisInsideBandEmitsNothing(t *testing.T) {
	cmds := Hysteresis{}.Evaluate(ctxWith(model.KindTemperature, 25), model.Parameters{
		ParamOnAbove: 26, ParamOffBelow: 24,
	})
	if len(cmds) != 0 {
		t.Fatalf("expected no commands inside the band, got %v", cmds)
	}
}

func TestHysteresisBoundariesAreInclusive(t *testing.T) {
	params := model.Parameters{ParamOnAbove: 26, ParamOffBelow: 24}
	on := single(t, Hysteresis{}.Evaluate(ctxWith(model.KindTemperature, 26), params))
	if on.Action != model.ActionOn {
		t.Fatalf("value == onAbove must turn the fan on, got %+v", on)
	}
	off := single(t, Hysteresis{}.Evaluate(ctxWith(model.KindTemperature, 24), params))
	if off.Action != model.ActionOff {
		t.Fatalf("value == offBelow must turn the fan off, got %+v", off)
	}
}

func TestHysteresisMissingParametersUseDefaults(t *testing.T) {
	// Defaults: onAbove=26, offBelow=24.
	c := single(t, Hysteresis{}.Evaluate(ctxWith(model.KindTemperature, 30), nil))
	if c.Action != model.ActionOn {
		t.Fatalf("expected Fan on with default thresholds, got %+v", c)
	}
	if cmds := (Hysteresis{}).Evaluate(ctxWith(model.KindTemperature, 25), nil); len(cmds) != 0 {
		t.Fatalf("25 sits inside the default band, got %v", cmds)
	}
}

func TestHysteresisWithoutTemperatureReadingEmitsNothing(t *testing.T) {
	cmds := Hysteresis{}.Evaluate(ctxWith(model.KindMoisture, 10), nil)
	if len(cmds) != 0 {
		t.Fatalf("no temperature reading must mean no commands, got %v", cmds)
	}
}

func TestTopUpBelowMinimumTurnsPumpOn(t *testing.T) {
	c := single(t, TopUp{}.Evaluate(ctxWith(model.KindMoisture, 20), model.Parameters{ParamMinLevel: 30}))
	if c.Actuator != ActuatorPump || c.Action != model.ActionOn {
		t.Fatalf("expected Pump on, got %+v", c)
	}
}

func TestTopUpAtOrAboveMinimumTurnsPumpOff(t *testing.T) {
	for _, v := range []float64{30, 45} {
		c := single(t, TopUp{}.Evaluate(ctxWith(model.KindMoisture, v), model.Parameters{ParamMinLevel: 30}))
		if c.Actuator != ActuatorPump || c.Action != model.ActionOff {
			t.Fatalf("value %v: expected Pump off, got %+v", v, c)
		}
	}
}

func TestStrategiesAreDeterministic(t *testing.T) {
	ctx := ctxWith(model.KindTemperature, 27)
	params := model.Parameters{ParamOnAbove: 26}
	first := Hysteresis{}.Evaluate(ctx, params)
	for i := 0; i < 5; i++ {
		again := Hysteresis{}.Evaluate(ctx, params)
		if len(again) != len(first) || again[0] != first[0] {
			t.Fatalf("evaluation %d differed: %v vs %v", i, again, first)
		}
	}
}
