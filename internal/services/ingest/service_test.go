package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/greenhouse-lab/enviroctl/internal/model"
	"github.com/greenhouse-lab/enviroctl/internal/services/persistence"
)

type capturingBus struct {
	events []model.ReadingEvent
}

func (b *capturingBus) Publish(_ context.Context, evt model.ReadingEvent) {
	b.events = append(b.events, evt)
}

func newService(t *testing.T) (*Service, *persistence.MemoryStore, *capturingBus) {
	t.Helper()
	store := persistence.NewMemoryStore()
	store.PutDevice(model.Device{ID: "dev-1", Actuators: []string{"Fan"}})
	bus := &capturingBus{}
	svc := NewService(store, store, bus, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return svc, store, bus
}

func TestCaptureReadingStoresAndPublishes(t *testing.T) {
	svc, store, bus := newService(t)

	evt, err := svc.CaptureReading(context.Background(), "dev-1", model.KindTemperature, 27, "°C")
	if err != nil {
		t.Fatalf("CaptureReading: %v", err)
	}
	if evt.Timestamp.IsZero() {
		t.Fatalf("expected a timestamp on the event")
	}

	latest, err := store.LatestByKind(context.Background(), "dev-1")
	if err != nil {
		t.Fatalf("LatestByKind: %v", err)
	}
	if latest[model.KindTemperature].Value != 27 {
		t.Fatalf("reading not stored: %+v", latest)
	}
	if len(bus.events) != 1 || bus.events[0].Value != 27 {
		t.Fatalf("expected 1 published event, got %+v", bus.events)
	}
}

func TestCaptureReadingUnknownDevice(t *testing.T) {
	svc, _, bus := newService(t)

	_, err := svc.CaptureReading(context.Background(), "ghost", model.KindTemperature, 1, "")
	if !errors.Is(err, model.ErrDeviceNotFound) {
		t.Fatalf("expected ErrDeviceNotFound, got %v", err)
	}
	if len(bus.events) != 0 {
		t.Fatalf("unknown device must not publish")
	}
}

type fakeMessage struct {
	payload []byte
}

func (f fakeMessage) Duplicate() bool   { return false }
func (f fakeMessage) Qos() byte        { return 1 }
func (f fakeMessage) Retained() bool   { return false }
func (f fakeMessage) Topic() string    { return "sensor/reading/dev-1" }
func (f fakeMessage) MessageID() uint16 { return 1 }
func (f fakeMessage) Payload() []byte  { return f.payload }
func (f fakeMessage) Ack()             {}

func TestHandleMessageCapturesDecodedReading(t *testing.T) {
	svc, _, bus := newService(t)

	payload, _ := json.Marshal(model.ReadingEvent{
		DeviceID: "dev-1", Kind: model.KindTemperature, Value: 25,
		Timestamp: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	})
	if err := svc.HandleMessage("sensor/reading/dev-1", fakeMessage{payload: payload}); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if len(bus.events) != 1 || bus.events[0].Value != 25 {
		t.Fatalf("expected the decoded event to be published, got %+v", bus.events)
	}
}

func TestHandleMessageDropsRedelivery(t *testing.T) {
	svc, _, bus := newService(t)

	payload, _ := json.Marshal(model.ReadingEvent{
		DeviceID: "dev-1", Kind: model.KindTemperature, Value: 25,
		Timestamp: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	})
	msg := fakeMessage{payload: payload}
	_ = svc.HandleMessage("sensor/reading/dev-1", msg)
	_ = svc.HandleMessage("sensor/reading/dev-1", msg)

	if len(bus.events) != 1 {
		t.Fatalf("identical redelivery must be dropped, got %d events", len(bus.events))
	}
}

func TestHandleMessageToleratesGarbageAndUnknownDevices(t *testing.T) {
	svc, _, bus := newService(t)

	if err := svc.HandleMessage("sensor/reading/x", fakeMessage{payload: []byte("{not json")}); err != nil {
		t.Fatalf("garbage payload must not error the stream: %v", err)
	}
	payload, _ := json.Marshal(model.ReadingEvent{DeviceID: "ghost", Kind: model.KindMoisture, Value: 1})
	if err := svc.HandleMessage("sensor/reading/ghost", fakeMessage{payload: payload}); err != nil {
		t.Fatalf("unknown device must not error the stream: %v", err)
	}
	if len(bus.events) != 0 {
		t.Fatalf("nothing should have been published, got %+v", bus.events)
	}
}
