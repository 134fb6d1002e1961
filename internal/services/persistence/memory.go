// Package persistence implements the storage collaborator the control core
// reads from and appends to. The in-memory store is authoritative for tests
// and simulated deployments; the Influx-backed store adds a queryable
// history on top of it.
package persistence

import (
	"context"
	"fmt"
	"sync"

	"github.com/greenhouse-lab/enviroctl/internal/model"
)

// MemoryStore keeps every record in process memory. It satisfies the
// collaborator interfaces declared by the alerting, strategy, ingest and
// controller packages.
type MemoryStore struct {
	mu            sync.RWMutex
	devices       map[string]model.Device
	rules         map[string][]model.AlertRule // keyed by device
	profiles      map[string]model.ControlProfile
	latest        map[string]map[model.SensorKind]model.ReadingEvent
	snapshots     map[string][]model.DeviceModeSnapshot
	notifications map[string][]model.AlertNotification
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		devices:       make(map[string]model.Device),
		rules:         make(map[string][]model.AlertRule),
		profiles:      make(map[string]model.ControlProfile),
		latest:        make(map[string]map[model.SensorKind]model.ReadingEvent),
		snapshots:     make(map[string][]model.DeviceModeSnapshot),
		notifications: make(map[string][]model.AlertNotification),
	}
}

// ---------- configuration writes ----------

func (m *MemoryStore) PutDevice(d model.Device) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.devices[d.ID] = d
}

// PutRule validates the rule before storing it, so malformed operators never
// reach the evaluator. An existing rule with the same ID is replaced.
func (m *MemoryStore) PutRule(r model.AlertRule) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("reject rule: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.rules[r.DeviceID]
	for i := range list {
		if list[i].ID == r.ID {
			list[i] = r
			return nil
		}
	}
	m.rules[r.DeviceID] = append(list, r)
	return nil
}

func (m *MemoryStore) SetProfile(p model.ControlProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.DeviceID] = p
}

// ---------- reads ----------

func (m *MemoryStore) Device(_ context.Context, id string) (model.Device, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.devices[id]
	return d, ok, nil
}

// Devices returns every registered device, for the ticker loop.
func (m *MemoryStore) Devices(_ context.Context) ([]model.Device, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Device, 0, len(m.devices))
	for _, d := range m.devices {
		out = append(out, d)
	}
	return out, nil
}

func (m *MemoryStore) ActiveRules(_ context.Context, deviceID string, kind model.SensorKind) ([]model.AlertRule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.AlertRule
	for _, r := range m.rules[deviceID] {
		if r.Active && r.Kind == kind {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MemoryStore) Profile(_ context.Context, deviceID string) (model.ControlProfile, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[deviceID]
	return p, ok, nil
}

// LatestByKind returns a copy of the most recent reading per sensor kind.
func (m *MemoryStore) LatestByKind(_ context.Context, deviceID string) (map[model.SensorKind]model.ReadingEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[model.SensorKind]model.ReadingEvent, len(m.latest[deviceID]))
	for k, v := range m.latest[deviceID] {
		out[k] = v
	}
	return out, nil
}

// CurrentSnapshot returns the most recent mode snapshot; ok is false when the
// device has no history yet.
func (m *MemoryStore) CurrentSnapshot(_ context.Context, deviceID string) (model.DeviceModeSnapshot, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	hist := m.snapshots[deviceID]
	if len(hist) == 0 {
		return model.DeviceModeSnapshot{}, false, nil
	}
	return hist[len(hist)-1], true, nil
}

// Snapshots returns the device's full append-only mode history.
func (m *MemoryStore) Snapshots(deviceID string) []model.DeviceModeSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.DeviceModeSnapshot, len(m.snapshots[deviceID]))
	copy(out, m.snapshots[deviceID])
	return out
}

// Notifications returns the fired notifications for a device.
func (m *MemoryStore) Notifications(deviceID string) []model.AlertNotification {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.AlertNotification, len(m.notifications[deviceID]))
	copy(out, m.notifications[deviceID])
	return out
}

// ---------- appends ----------

func (m *MemoryStore) AppendReading(_ context.Context, evt model.ReadingEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	byKind, ok := m.latest[evt.DeviceID]
	if !ok {
		byKind = make(map[model.SensorKind]model.ReadingEvent)
		m.latest[evt.DeviceID] = byKind
	}
	byKind[evt.Kind] = evt
	return nil
}

func (m *MemoryStore) AppendSnapshot(_ context.Context, s model.DeviceModeSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[s.DeviceID] = append(m.snapshots[s.DeviceID], s)
	return nil
}

func (m *MemoryStore) AppendNotification(_ context.Context, n model.AlertNotification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications[n.DeviceID] = append(m.notifications[n.DeviceID], n)
	return nil
}
