package controller

import (
	"github.com/greenhouse-lab/enviroctl/internal/model"
	"github.com/greenhouse-lab/enviroctl/internal/services/strategy"
)

// decision is what a mode behavior returns for one tick.
type decision struct {
	next     model.Mode
	commands []model.ActuatorCommand
	note     string
}

// behaviorFunc is the shared contract of all mode behaviors. Behaviors are
// pure: they read the tick context and return a decision, nothing else.
type behaviorFunc func(tc tickContext) decision

// behaviors maps each mode to its decision function. Adding a mode means
// adding an entry here; existing behaviors stay untouched. The shared
// function values carry no per-device state, so one instance serves every
// device.
var behaviors = map[model.Mode]behaviorFunc{
	model.ModeIdle:       decideIdle,
	model.ModeCooling:    decideCooling,
	model.ModeIrrigating: decideIrrigating,
	model.ModeAlarm:      decideAlarm,
}

// decideIdle checks the critical condition first (Alarm wins over any
// cooling or irrigation need), then asks the resolved strategy whether any
// actuator should start.
func decideIdle(tc tickContext) decision {
	if tc.alarmActive() {
		return decision{next: model.ModeAlarm, commands: safetyCommands(tc.device), note: "alarm threshold exceeded"}
	}
	for _, c := range tc.evaluate() {
		if c.Action != model.ActionOn {
			continue
		}
		switch c.Actuator {
		case strategy.ActuatorFan:
			return decision{next: model.ModeCooling, commands: []model.ActuatorCommand{c}, note: "cooling demand"}
		case strategy.ActuatorPump:
			return decision{next: model.ModeIrrigating, commands: []model.ActuatorCommand{c}, note: "moisture below minimum"}
		}
	}
	return decision{next: model.ModeIdle}
}

// decideCooling keeps the fan running until the strategy explicitly asks for
// Fan off, which is the exit action back to Idle. A strategy that emits
// commands for other actuators only (after a profile switch) has released
// the fan, which also exits.
func decideCooling(tc tickContext) decision {
	if tc.alarmActive() {
		return decision{next: model.ModeAlarm, commands: safetyCommands(tc.device), note: "alarm threshold exceeded"}
	}
	cmds := tc.evaluate()
	if hasCommand(cmds, strategy.ActuatorFan, model.ActionOff) {
		return decision{
			next:     model.ModeIdle,
			commands: []model.ActuatorCommand{{Actuator: strategy.ActuatorFan, Action: model.ActionOff}},
			note:     "cooling demand cleared",
		}
	}
	if len(cmds) > 0 && !addressesActuator(cmds, strategy.ActuatorFan) {
		return decision{
			next:     model.ModeIdle,
			commands: []model.ActuatorCommand{{Actuator: strategy.ActuatorFan, Action: model.ActionOff}},
			note:     "strategy released the fan",
		}
	}
	return decision{
		next:     model.ModeCooling,
		commands: []model.ActuatorCommand{{Actuator: strategy.ActuatorFan, Action: model.ActionOn}},
	}
}

// decideIrrigating is symmetric to cooling, on the pump.
func decideIrrigating(tc tickContext) decision {
	if tc.alarmActive() {
		return decision{next: model.ModeAlarm, commands: safetyCommands(tc.device), note: "alarm threshold exceeded"}
	}
	cmds := tc.evaluate()
	if hasCommand(cmds, strategy.ActuatorPump, model.ActionOff) {
		return decision{
			next:     model.ModeIdle,
			commands: []model.ActuatorCommand{{Actuator: strategy.ActuatorPump, Action: model.ActionOff}},
			note:     "moisture restored",
		}
	}
	if len(cmds) > 0 && !addressesActuator(cmds, strategy.ActuatorPump) {
		return decision{
			next:     model.ModeIdle,
			commands: []model.ActuatorCommand{{Actuator: strategy.ActuatorPump, Action: model.ActionOff}},
			note:     "strategy released the pump",
		}
	}
	return decision{
		next:     model.ModeIrrigating,
		commands: []model.ActuatorCommand{{Actuator: strategy.ActuatorPump, Action: model.ActionOn}},
	}
}

// decideAlarm keeps every actuator off while the critical condition holds
// and returns to Idle once it clears.
func decideAlarm(tc tickContext) decision {
	if tc.alarmActive() {
		return decision{next: model.ModeAlarm, commands: safetyCommands(tc.device), note: "alarm condition persists"}
	}
	return decision{next: model.ModeIdle, note: "alarm condition cleared"}
}

// safetyCommands turns off every actuator the device declares; devices with
// an empty actuator list get the built-in pair.
func safetyCommands(dev model.Device) []model.ActuatorCommand {
	names := dev.Actuators
	if len(names) == 0 {
		names = []string{strategy.ActuatorFan, strategy.ActuatorPump}
	}
	out := make([]model.ActuatorCommand, 0, len(names))
	for _, n := range names {
		out = append(out, model.ActuatorCommand{Actuator: n, Action: model.ActionOff})
	}
	return out
}

func hasCommand(cmds []model.ActuatorCommand, actuator string, action model.ActuatorAction) bool {
	for _, c := range cmds {
		if c.Actuator == actuator && c.Action == action {
			return true
		}
	}
	return false
}

func addressesActuator(cmds []model.ActuatorCommand, actuator string) bool {
	for _, c := range cmds {
		if c.Actuator == actuator {
			return true
		}
	}
	return false
}
