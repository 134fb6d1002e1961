package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/greenhouse-lab/enviroctl/internal/metrics"
	"github.com/greenhouse-lab/enviroctl/internal/model"
	"github.com/greenhouse-lab/enviroctl/internal/services/adapter"
	"github.com/greenhouse-lab/enviroctl/internal/services/alerting"
	"github.com/greenhouse-lab/enviroctl/internal/services/controller"
	"github.com/greenhouse-lab/enviroctl/internal/services/dispatcher"
	"github.com/greenhouse-lab/enviroctl/internal/services/ingest"
	"github.com/greenhouse-lab/enviroctl/internal/services/persistence"
	"github.com/greenhouse-lab/enviroctl/internal/services/strategy"
	"github.com/greenhouse-lab/enviroctl/pkg/mqttbus"
)

// coreStore is the union of the collaborator views the process needs; both
// the memory and the Influx-backed stores satisfy it.
type coreStore interface {
	controller.DeviceStore
	controller.ReadingStore
	controller.SnapshotStore
	alerting.RuleStore
	alerting.NotificationStore
	strategy.ProfileStore
	ingest.ReadingStore

	PutDevice(model.Device)
	PutRule(model.AlertRule) error
	SetProfile(model.ControlProfile)
	Devices(ctx context.Context) ([]model.Device, error)
}

func main() {
	cfg := loadConfig()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Store.
	var store coreStore
	switch cfg.Store {
	case "influx":
		s, err := persistence.NewInfluxStore(persistence.InfluxConfig{
			URL: cfg.InfluxURL, Token: cfg.InfluxToken,
			Org: cfg.InfluxOrg, Bucket: cfg.InfluxBucket,
		}, logger)
		if err != nil {
			logger.Error("influx store init failed", "error", err)
			os.Exit(1)
		}
		defer s.Close()
		store = s
	default:
		store = persistence.NewMemoryStore()
	}

	if err := loadRegistry(cfg, store, logger); err != nil {
		logger.Error("registry load failed", "error", err)
		os.Exit(1)
	}

	// Optional MQTT broker.
	var publisher mqttbus.IPublisher
	var readingConsumer *mqttbus.Consumer
	if cfg.MQTTHost != "" {
		client, err := mqttbus.Connect(ctx, mqttbus.Config{
			Host: cfg.MQTTHost, Port: cfg.MQTTPort,
			User: cfg.MQTTUser, Password: cfg.MQTTPassword,
			ClientID: fmt.Sprintf("enviroctl-%s", getenv("HOSTNAME", "local")),
		})
		if err != nil {
			logger.Error("mqtt connect failed", "error", err)
			os.Exit(1)
		}
		publisher = mqttbus.NewPublisher(client)
		readingConsumer = mqttbus.NewConsumer(client, cfg.ReadingTopic, 1, logger)
	}

	// Adapters behind the runtime switch.
	factory := adapter.Factory{
		Logger:        logger,
		HTTPTimeout:   cfg.ApplyTimeout,
		MQTTPublisher: publisher,
		CommandTopic:  cfg.CommandTopic,
		KafkaBrokers:  cfg.KafkaBrokers,
		KafkaTopic:    cfg.KafkaTopic,
	}
	actuator, err := factory.Actuator(cfg.ActuatorMode, cfg.ActuatorEndpoint)
	if err != nil {
		logger.Error("actuator adapter init failed", "error", err)
		os.Exit(1)
	}
	notifier, err := factory.Notifier(cfg.NotifierMode)
	if err != nil {
		logger.Error("notifier adapter init failed", "error", err)
		os.Exit(1)
	}
	adapters := adapter.NewSwitch(actuator, notifier)

	// Composition: one dispatcher, observers registered explicitly.
	bus := dispatcher.New(logger)
	bus.Subscribe(alerting.NewEvaluator(store, store, logger))

	selector, err := strategy.NewSelector(store, strategy.DefaultCatalog(), logger)
	if err != nil {
		logger.Error("selector init failed", "error", err)
		os.Exit(1)
	}
	engine := controller.NewEngine(store, store, store, selector, adapters, adapters, logger)
	engine.SetApplyTimeout(cfg.ApplyTimeout)

	ingestSvc := ingest.NewService(store, store, bus, logger)

	if readingConsumer != nil {
		readingConsumer.SetHandler(ingestSvc.HandleMessage)
		go readingConsumer.Consume(ctx)
	}

	if cfg.TickInterval > 0 {
		go tickLoop(ctx, cfg.TickInterval, store, engine, logger)
	}

	mux := newMux(store, engine, ingestSvc, adapters, factory, logger)
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: mux}
	go func() {
		logger.Info("controller listening", "addr", cfg.HTTPAddr,
			"store", cfg.Store, "actuator", cfg.ActuatorMode, "notifier", cfg.NotifierMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			cancel()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigc:
	case <-ctx.Done():
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}

// tickLoop periodically ticks every registered device.
func tickLoop(ctx context.Context, interval time.Duration, store coreStore, engine *controller.Engine, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		devices, err := store.Devices(ctx)
		if err != nil {
			logger.Error("device listing failed", "error", err)
			continue
		}
		for _, dev := range devices {
			res, err := engine.Tick(ctx, dev.ID)
			if err != nil {
				logger.Error("tick failed", "device", dev.ID, "error", err)
				continue
			}
			if res.DeliveryErr != nil {
				logger.Warn("tick delivery failed", "device", dev.ID, "error", res.DeliveryErr)
			}
		}
	}
}

func newMux(store coreStore, engine *controller.Engine, ingestSvc *ingest.Service, adapters *adapter.Switch, factory adapter.Factory, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", metrics.Handler())

	// POST /tick?device=<id>
	mux.HandleFunc("/tick", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		deviceID := r.URL.Query().Get("device")
		res, err := engine.Tick(r.Context(), deviceID)
		if errors.Is(err, model.ErrDeviceNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		type out struct {
			controller.TransitionResult
			DeliveryError string `json:"delivery_error,omitempty"`
		}
		o := out{TransitionResult: res}
		if res.DeliveryErr != nil {
			o.DeliveryError = res.DeliveryErr.Error()
		}
		writeJSON(w, o)
	})

	// POST /readings {device_id, kind, value, unit}
	mux.HandleFunc("/readings", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var in struct {
			DeviceID string           `json:"device_id"`
			Kind     model.SensorKind `json:"kind"`
			Value    float64          `json:"value"`
			Unit     string           `json:"unit"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		evt, err := ingestSvc.CaptureReading(r.Context(), in.DeviceID, in.Kind, in.Value, in.Unit)
		if errors.Is(err, model.ErrDeviceNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, evt)
	})

	// POST /devices {id, name, zone, actuators}
	mux.HandleFunc("/devices", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var dev model.Device
		if err := json.NewDecoder(r.Body).Decode(&dev); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if dev.ID == "" {
			http.Error(w, "missing id", http.StatusBadRequest)
			return
		}
		store.PutDevice(dev)
		w.WriteHeader(http.StatusNoContent)
	})

	// POST /profiles {device_id, strategy_key, parameters}
	mux.HandleFunc("/profiles", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var prof model.ControlProfile
		if err := json.NewDecoder(r.Body).Decode(&prof); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if prof.DeviceID == "" {
			http.Error(w, "missing device_id", http.StatusBadRequest)
			return
		}
		store.SetProfile(prof)
		w.WriteHeader(http.StatusNoContent)
	})

	// POST /rules. Malformed rules are rejected here, never reaching the evaluator.
	mux.HandleFunc("/rules", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var rule model.AlertRule
		if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := store.PutRule(rule); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	// POST /adapters {actuator_mode, notifier_mode, endpoint}
	mux.HandleFunc("/adapters", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var in struct {
			ActuatorMode string `json:"actuator_mode"`
			NotifierMode string `json:"notifier_mode"`
			Endpoint     string `json:"endpoint"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if in.ActuatorMode != "" {
			a, err := factory.Actuator(in.ActuatorMode, in.Endpoint)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			adapters.SetActuator(a)
		}
		if in.NotifierMode != "" {
			n, err := factory.Notifier(in.NotifierMode)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			adapters.SetNotifier(n)
		}
		logger.Info("adapters switched", "actuator", adapters.ActuatorName(), "notifier", adapters.NotifierName())
		w.WriteHeader(http.StatusNoContent)
	})

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
