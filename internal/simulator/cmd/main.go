package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/greenhouse-lab/enviroctl/internal/simulator"
	"github.com/greenhouse-lab/enviroctl/pkg/mqttbus"
)

func main() {
	deviceID := flag.String("device-id", "greenhouse-1", "device identifier")
	interval := flag.Duration("interval", 10*time.Second, "publish interval")
	host := flag.String("mqtt-host", "localhost", "MQTT broker host")
	port := flag.Int("mqtt-port", 1883, "MQTT broker port")
	user := flag.String("mqtt-user", "guest", "MQTT user")
	password := flag.String("mqtt-password", "guest", "MQTT password")
	startTemp := flag.Float64("start-temp", 22, "initial temperature, °C")
	startMoist := flag.Float64("start-moisture", 45, "initial soil moisture, percent")
	ambient := flag.Float64("ambient", 28, "ambient temperature the zone drifts toward, °C")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
		<-sigc
		cancel()
	}()

	client, err := mqttbus.Connect(ctx, mqttbus.Config{
		Host: *host, Port: *port, User: *user, Password: *password,
		ClientID: fmt.Sprintf("simulator-%s", *deviceID),
	})
	if err != nil {
		logger.Error("mqtt connect failed", "error", err)
		os.Exit(1)
	}

	gen := simulator.NewGenerator(simulator.GeneratorConfig{
		StartTemperature: *startTemp,
		StartMoisture:    *startMoist,
		Ambient:          *ambient,
		DriftPerMin:      0.05,
		DecayPerMin:      0.1,
	})
	publisher := mqttbus.NewPublisher(client)
	consumer := mqttbus.NewConsumer(client, fmt.Sprintf("actuator/command/%s", *deviceID), 1, logger)

	sim := simulator.New(*deviceID, gen, publisher, consumer, logger)
	logger.Info("simulator started", "device", *deviceID, "interval", *interval)
	sim.Run(ctx, *interval)
}
