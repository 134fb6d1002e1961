// Package ingest turns raw measurements into stored, published reading
// events. Readings arrive either through the direct CaptureReading call or
// from the MQTT sensor topic.
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/greenhouse-lab/enviroctl/internal/model"
	"github.com/greenhouse-lab/enviroctl/pkg/dedup"
)

// DeviceStore resolves device IDs against the registry.
type DeviceStore interface {
	Device(ctx context.Context, id string) (model.Device, bool, error)
}

// ReadingStore persists captured readings.
type ReadingStore interface {
	AppendReading(ctx context.Context, evt model.ReadingEvent) error
}

// Publisher fans the stored event out to the observers (the dispatcher).
type Publisher interface {
	Publish(ctx context.Context, evt model.ReadingEvent)
}

type Service struct {
	devices DeviceStore
	store   ReadingStore
	bus     Publisher
	window  *dedup.Window
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(devices DeviceStore, store ReadingStore, bus Publisher, logger *slog.Logger) *Service {
	return &Service{
		devices: devices,
		store:   store,
		bus:     bus,
		window:  dedup.NewWindow(10*time.Minute, 20000),
		logger:  logger.With("component", "ingest"),
		now:     time.Now,
	}
}

// CaptureReading records one measurement and publishes the resulting event.
// The event is stored before publication, so observers that re-read state
// see the reading they were notified about.
func (s *Service) CaptureReading(ctx context.Context, deviceID string, kind model.SensorKind, value float64, unit string) (model.ReadingEvent, error) {
	evt := model.ReadingEvent{
		DeviceID:  deviceID,
		Kind:      kind,
		Value:     value,
		Unit:      unit,
		Timestamp: s.now().UTC(),
	}
	if err := s.capture(ctx, evt); err != nil {
		return model.ReadingEvent{}, err
	}
	return evt, nil
}

func (s *Service) capture(ctx context.Context, evt model.ReadingEvent) error {
	_, ok, err := s.devices.Device(ctx, evt.DeviceID)
	if err != nil {
		return fmt.Errorf("load device: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", model.ErrDeviceNotFound, evt.DeviceID)
	}
	if err := s.store.AppendReading(ctx, evt); err != nil {
		return fmt.Errorf("store reading: %w", err)
	}
	s.bus.Publish(ctx, evt)
	return nil
}

// HandleMessage is the MQTT consumer handler. QoS1 redeliveries are dropped
// by payload hash before decoding; malformed payloads and unknown devices
// are logged and skipped so one bad producer cannot stall the stream.
func (s *Service) HandleMessage(topic string, msg mqtt.Message) error {
	sum := sha256.Sum256(msg.Payload())
	if s.window.Observe(hex.EncodeToString(sum[:])) {
		return nil
	}

	var evt model.ReadingEvent
	if err := json.Unmarshal(msg.Payload(), &evt); err != nil {
		s.logger.Warn("bad reading payload", "topic", topic, "error", err)
		return nil
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = s.now().UTC()
	}
	if err := s.capture(context.Background(), evt); err != nil {
		s.logger.Warn("reading dropped", "topic", topic, "device", evt.DeviceID, "error", err)
	}
	return nil
}
