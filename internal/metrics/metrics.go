// Package metrics holds the process-wide Prometheus instruments for the
// control core.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ReadingsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "enviroctl",
		Name:      "readings_published_total",
		Help:      "Reading events handed to the dispatcher.",
	})

	ObserverFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "enviroctl",
		Name:      "observer_failures_total",
		Help:      "Observer handlers that returned an error or panicked.",
	}, []string{"observer"})

	AlertsFired = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "enviroctl",
		Name:      "alerts_fired_total",
		Help:      "Alert notifications created by the rule evaluator.",
	})

	Ticks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "enviroctl",
		Name:      "ticks_total",
		Help:      "State engine ticks by resulting mode.",
	}, []string{"mode"})

	ModeTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "enviroctl",
		Name:      "mode_transitions_total",
		Help:      "Persisted device mode transitions.",
	}, []string{"from", "to"})

	DeliveryFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "enviroctl",
		Name:      "delivery_failures_total",
		Help:      "Adapter deliveries that failed or timed out.",
	}, []string{"adapter"})
)

// Handler exposes the default registry for the ops mux.
func Handler() http.Handler { return promhttp.Handler() }
