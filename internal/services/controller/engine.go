// Package controller runs the per-device state machine: one tick reads the
// device's latest sensor context, dispatches to the current mode's behavior
// and applies the resulting transition and commands.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/greenhouse-lab/enviroctl/internal/metrics"
	"github.com/greenhouse-lab/enviroctl/internal/model"
	"github.com/greenhouse-lab/enviroctl/internal/services/strategy"
)

// DeviceStore resolves device IDs against the registry.
type DeviceStore interface {
	Device(ctx context.Context, id string) (model.Device, bool, error)
}

// ReadingStore yields the most recent reading per sensor kind for a device.
type ReadingStore interface {
	LatestByKind(ctx context.Context, deviceID string) (map[model.SensorKind]model.ReadingEvent, error)
}

// SnapshotStore persists the append-only mode history.
type SnapshotStore interface {
	CurrentSnapshot(ctx context.Context, deviceID string) (model.DeviceModeSnapshot, bool, error)
	AppendSnapshot(ctx context.Context, s model.DeviceModeSnapshot) error
}

// CommandApplier delivers one tick's commands (the adapter switch).
type CommandApplier interface {
	ApplyCommands(ctx context.Context, deviceID string, cmds []model.ActuatorCommand) error
}

// Notifier delivers out-of-band notifications (the adapter switch).
type Notifier interface {
	Notify(ctx context.Context, deviceID, title, message string) error
}

// TransitionResult is what one tick produced. DeliveryErr reports adapter
// failures separately: the mode transition is authoritative and already
// persisted even when delivery failed.
type TransitionResult struct {
	DeviceID string                  `json:"device_id"`
	FromMode model.Mode              `json:"from_mode"`
	NextMode model.Mode              `json:"next_mode"`
	Changed  bool                    `json:"changed"`
	Commands []model.ActuatorCommand `json:"commands"`
	Note     string                  `json:"note,omitempty"`

	DeliveryErr error `json:"-"`
}

// Engine ticks devices through the mode state machine.
type Engine struct {
	devices   DeviceStore
	readings  ReadingStore
	snapshots SnapshotStore
	selector  *strategy.Selector
	actuators CommandApplier
	notifier  Notifier
	logger    *slog.Logger

	applyTimeout time.Duration
	locks        deviceLocks
	now          func() time.Time
}

func NewEngine(
	devices DeviceStore,
	readings ReadingStore,
	snapshots SnapshotStore,
	selector *strategy.Selector,
	actuators CommandApplier,
	notifier Notifier,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		devices:      devices,
		readings:     readings,
		snapshots:    snapshots,
		selector:     selector,
		actuators:    actuators,
		notifier:     notifier,
		logger:       logger.With("component", "engine"),
		applyTimeout: 5 * time.Second,
		now:          time.Now,
	}
}

// SetApplyTimeout bounds adapter deliveries so a slow device endpoint cannot
// stall a tick indefinitely.
func (e *Engine) SetApplyTimeout(d time.Duration) {
	if d > 0 {
		e.applyTimeout = d
	}
}

// Tick runs one evaluation cycle for deviceID. Ticks for the same device are
// serialized; repeated invocation without new readings is deterministic.
func (e *Engine) Tick(ctx context.Context, deviceID string) (TransitionResult, error) {
	unlock := e.locks.lock(deviceID)
	defer unlock()

	dev, ok, err := e.devices.Device(ctx, deviceID)
	if err != nil {
		return TransitionResult{}, fmt.Errorf("load device: %w", err)
	}
	if !ok {
		return TransitionResult{}, fmt.Errorf("%w: %s", model.ErrDeviceNotFound, deviceID)
	}

	cur := model.ModeIdle
	if snap, have, err := e.snapshots.CurrentSnapshot(ctx, deviceID); err != nil {
		return TransitionResult{}, fmt.Errorf("load current mode: %w", err)
	} else if have {
		cur = snap.Mode
	}

	readings, err := e.readings.LatestByKind(ctx, deviceID)
	if err != nil {
		return TransitionResult{}, fmt.Errorf("load readings: %w", err)
	}
	strat, params, err := e.selector.Resolve(ctx, deviceID)
	if err != nil {
		return TransitionResult{}, fmt.Errorf("resolve strategy: %w", err)
	}

	tc := tickContext{
		device:   dev,
		mode:     cur,
		readings: readings,
		strat:    strat,
		params:   params,
		now:      e.now(),
	}

	behave, known := behaviors[cur]
	if !known {
		// A snapshot written by a newer build may carry a mode this build
		// does not know; restart the machine from Idle.
		e.logger.Warn("unknown mode in history, treating as Idle", "device", deviceID, "mode", cur)
		behave = decideIdle
	}
	d := behave(tc)

	res := TransitionResult{
		DeviceID: deviceID,
		FromMode: cur,
		NextMode: d.next,
		Changed:  d.next != cur,
		Commands: d.commands,
		Note:     d.note,
	}

	// Persist the transition before any delivery: the snapshot is the
	// authoritative outcome of the tick.
	if res.Changed {
		snap := model.DeviceModeSnapshot{
			ID:        uuid.NewString(),
			DeviceID:  deviceID,
			Mode:      d.next,
			EnteredAt: tc.now,
			Note:      d.note,
		}
		if err := e.snapshots.AppendSnapshot(ctx, snap); err != nil {
			return TransitionResult{}, fmt.Errorf("persist mode snapshot: %w", err)
		}
		metrics.ModeTransitions.WithLabelValues(string(cur), string(d.next)).Inc()
		e.logger.Info("mode transition", "device", deviceID, "from", cur, "to", d.next, "note", d.note)
	}
	metrics.Ticks.WithLabelValues(string(d.next)).Inc()

	if len(d.commands) > 0 {
		res.DeliveryErr = e.deliverCommands(ctx, deviceID, d.commands)
	}
	if res.Changed && d.next == model.ModeAlarm {
		if err := e.deliverAlarmNotification(ctx, deviceID, d.note); err != nil {
			res.DeliveryErr = errors.Join(res.DeliveryErr, err)
		}
	}
	return res, nil
}

func (e *Engine) deliverCommands(ctx context.Context, deviceID string, cmds []model.ActuatorCommand) error {
	actx, cancel := context.WithTimeout(ctx, e.applyTimeout)
	defer cancel()
	if err := e.actuators.ApplyCommands(actx, deviceID, cmds); err != nil {
		metrics.DeliveryFailures.WithLabelValues("actuator").Inc()
		e.logger.Error("command delivery failed", "device", deviceID, "error", err)
		return fmt.Errorf("apply commands: %w", err)
	}
	return nil
}

func (e *Engine) deliverAlarmNotification(ctx context.Context, deviceID, note string) error {
	nctx, cancel := context.WithTimeout(ctx, e.applyTimeout)
	defer cancel()
	if err := e.notifier.Notify(nctx, deviceID, "Alarm entered", note); err != nil {
		metrics.DeliveryFailures.WithLabelValues("notifier").Inc()
		e.logger.Error("alarm notification failed", "device", deviceID, "error", err)
		return fmt.Errorf("notify alarm: %w", err)
	}
	return nil
}
