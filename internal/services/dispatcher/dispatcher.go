// Package dispatcher fans reading events out to registered observers.
package dispatcher

import (
	"context"
	"log/slog"
	"sync"

	"github.com/greenhouse-lab/enviroctl/internal/metrics"
	"github.com/greenhouse-lab/enviroctl/internal/model"
)

// Observer reacts to published reading events. The publisher never learns
// an observer's identity beyond its name, which is used for reporting.
type Observer interface {
	Name() string
	OnReading(ctx context.Context, evt model.ReadingEvent) error
}

// Dispatcher delivers each published event to every registered observer in
// registration order. Failures are isolated: one failing handler never
// blocks delivery to the rest and never propagates to the publisher.
type Dispatcher struct {
	mu        sync.Mutex
	observers []Observer
	logger    *slog.Logger
}

func New(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{logger: logger.With("component", "dispatcher")}
}

// Subscribe registers obs. Re-registering an already subscribed observer is
// a no-op, keeping the registry de-duplicated.
func (d *Dispatcher) Subscribe(obs Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, o := range d.observers {
		if o == obs {
			return
		}
	}
	d.observers = append(d.observers, obs)
}

// Unsubscribe removes obs; unknown observers are ignored.
func (d *Dispatcher) Unsubscribe(obs Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, o := range d.observers {
		if o == obs {
			d.observers = append(d.observers[:i], d.observers[i+1:]...)
			return
		}
	}
}

// Publish delivers evt to a snapshot of the registry taken at call time, so
// observers may subscribe or unsubscribe mid-dispatch without affecting the
// iteration in flight.
func (d *Dispatcher) Publish(ctx context.Context, evt model.ReadingEvent) {
	d.mu.Lock()
	snapshot := make([]Observer, len(d.observers))
	copy(snapshot, d.observers)
	d.mu.Unlock()

	metrics.ReadingsPublished.Inc()
	for _, obs := range snapshot {
		d.deliver(ctx, obs, evt)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, obs Observer, evt model.ReadingEvent) {
	defer func() {
		if r := recover(); r != nil {
			metrics.ObserverFailures.WithLabelValues(obs.Name()).Inc()
			d.logger.Error("observer panicked", "observer", obs.Name(), "panic", r)
		}
	}()
	if err := obs.OnReading(ctx, evt); err != nil {
		metrics.ObserverFailures.WithLabelValues(obs.Name()).Inc()
		d.logger.Error("observer failed", "observer", obs.Name(),
			"device", evt.DeviceID, "error", err)
	}
}
