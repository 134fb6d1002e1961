package main

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr string

	// Store selection: "memory" or "influx".
	Store        string
	InfluxURL    string
	InfluxToken  string
	InfluxOrg    string
	InfluxBucket string

	// MQTT broker; empty host disables the MQTT ingestion path and the MQTT
	// actuator adapter.
	MQTTHost     string
	MQTTPort     int
	MQTTUser     string
	MQTTPassword string
	ReadingTopic string
	CommandTopic string

	// Adapter modes at startup; switchable at runtime via /adapters.
	ActuatorMode     string
	ActuatorEndpoint string
	NotifierMode     string
	KafkaBrokers     []string
	KafkaTopic       string

	// Engine tuning.
	ApplyTimeout time.Duration
	TickInterval time.Duration // 0 disables the periodic tick loop

	// Registry files (JSON), loaded at startup when present.
	DevicesPath  string
	RulesPath    string
	ProfilesPath string
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getenvDuration(k string, d time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if dur, err := time.ParseDuration(v); err == nil {
			return dur
		}
	}
	return d
}

func getenvList(k string) []string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func loadConfig() Config {
	return Config{
		HTTPAddr: getenv("HTTP_ADDR", ":8080"),

		Store:        getenv("STORE", "memory"),
		InfluxURL:    getenv("INFLUX_URL", "http://influxdb:8086"),
		InfluxToken:  getenv("INFLUX_TOKEN", ""),
		InfluxOrg:    getenv("INFLUX_ORG", "enviroctl"),
		InfluxBucket: getenv("INFLUX_BUCKET", "control"),

		MQTTHost:     getenv("MQTT_HOST", ""),
		MQTTPort:     getenvInt("MQTT_PORT", 1883),
		MQTTUser:     getenv("MQTT_USER", "guest"),
		MQTTPassword: getenv("MQTT_PASSWORD", "guest"),
		ReadingTopic: getenv("READING_TOPIC", "sensor/reading/#"),
		CommandTopic: getenv("COMMAND_TOPIC", "actuator/command/{device}"),

		ActuatorMode:     getenv("ACTUATOR_MODE", "simulated"),
		ActuatorEndpoint: getenv("ACTUATOR_ENDPOINT", ""),
		NotifierMode:     getenv("NOTIFIER_MODE", "log"),
		KafkaBrokers:     getenvList("KAFKA_BROKERS"),
		KafkaTopic:       getenv("KAFKA_TOPIC", "notifications"),

		ApplyTimeout: getenvDuration("APPLY_TIMEOUT", 5*time.Second),
		TickInterval: getenvDuration("TICK_INTERVAL", 0),

		DevicesPath:  getenv("DEVICES_PATH", "/app/config/devices.json"),
		RulesPath:    getenv("RULES_PATH", ""),
		ProfilesPath: getenv("PROFILES_PATH", ""),
	}
}
