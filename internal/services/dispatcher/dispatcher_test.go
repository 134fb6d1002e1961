package dispatcher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/greenhouse-lab/enviroctl/internal/model"
)

type recordingObserver struct {
	name   string
	events []model.ReadingEvent
	err    error
	panics bool
}

func (r *recordingObserver) Name() string { return r.name }

func (r *recordingObserver) OnReading(_ context.Context, evt model.ReadingEvent) error {
	if r.panics {
		panic("observer blew up")
	}
	r.events = append(r.events, evt)
	return r.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEvent() model.ReadingEvent {
	return model.ReadingEvent{
		DeviceID:  "dev-1",
		Kind:      model.KindTemperature,
		Value:     27,
		Timestamp: time.Now(),
	}
}

func TestPublishDeliversInRegistrationOrder(t *testing.T) {
	d := New(discardLogger())
	var order []string
	mk := func(name string) Observer {
		return &observerFunc{name: name, fn: func(model.ReadingEvent) error {
			order = append(order, name)
			return nil
		}}
	}
	d.Subscribe(mk("first"))
	d.Subscribe(mk("second"))
	d.Subscribe(mk("third"))

	d.Publish(context.Background(), testEvent())

	want := []string{"first", "second", "third"}
	if len(order) != len(want) {
		t.Fatalf("expected %d deliveries, got %d", len(want), len(order))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("delivery %d: expected %s, got %s", i, want[i], order[i])
		}
	}
}

// observerFunc is registered by pointer so the dispatcher's identity
// comparison stays valid.
type observerFunc struct {
	name string
	fn   func(model.ReadingEvent) error
}

func (o *observerFunc) Name() string { return o.name }
func (o *observerFunc) OnReading(_ context.Context, evt model.ReadingEvent) error {
	return o.fn(evt)
}

func TestFailingObserverDoesNotBlockOthers(t *testing.T) {
	d := New(discardLogger())
	failing := &recordingObserver{name: "failing", err: errors.New("boom")}
	healthy := &recordingObserver{name: "healthy"}
	d.Subscribe(failing)
	d.Subscribe(healthy)

	d.Publish(context.Background(), testEvent())

	if len(healthy.events) != 1 {
		t.Fatalf("healthy observer expected 1 event, got %d", len(healthy.events))
	}
}

func TestPanickingObserverIsIsolated(t *testing.T) {
	d := New(discardLogger())
	panicking := &recordingObserver{name: "panicking", panics: true}
	healthy := &recordingObserver{name: "healthy"}
	d.Subscribe(panicking)
	d.Subscribe(healthy)

	d.Publish(context.Background(), testEvent())

	if len(healthy.events) != 1 {
		t.Fatalf("healthy observer expected 1 event, got %d", len(healthy.events))
	}
}

func TestSubscribeIsDeduplicated(t *testing.T) {
	d := New(discardLogger())
	obs := &recordingObserver{name: "once"}
	d.Subscribe(obs)
	d.Subscribe(obs)

	d.Publish(context.Background(), testEvent())

	if len(obs.events) != 1 {
		t.Fatalf("expected 1 delivery for duplicated subscribe, got %d", len(obs.events))
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	d := New(discardLogger())
	obs := &recordingObserver{name: "gone"}
	d.Subscribe(obs)
	d.Unsubscribe(obs)

	d.Publish(context.Background(), testEvent())

	if len(obs.events) != 0 {
		t.Fatalf("expected no deliveries after unsubscribe, got %d", len(obs.events))
	}
}

func TestSubscribeDuringPublishDoesNotAffectInFlightDispatch(t *testing.T) {
	d := New(discardLogger())
	late := &recordingObserver{name: "late"}
	first := &observerFunc{name: "first", fn: func(model.ReadingEvent) error {
		d.Subscribe(late)
		return nil
	}}
	d.Subscribe(first)

	d.Publish(context.Background(), testEvent())
	if len(late.events) != 0 {
		t.Fatalf("late subscriber must not see the in-flight event")
	}

	d.Publish(context.Background(), testEvent())
	if len(late.events) != 1 {
		t.Fatalf("late subscriber expected 1 event on the next publish, got %d", len(late.events))
	}
}
