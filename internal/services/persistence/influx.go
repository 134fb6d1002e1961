package persistence

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/greenhouse-lab/enviroctl/internal/model"
)

// InfluxConfig carries the connection settings for the history bucket.
type InfluxConfig struct {
	URL    string
	Token  string
	Org    string
	Bucket string
}

// InfluxStore layers an InfluxDB history on top of the in-memory store:
// reads (latest reading, current mode, rules, profiles) are served from
// memory, while every append is also written as a point so the bucket keeps
// the full (deviceId, timestamp)-indexed history of readings, notifications
// and mode snapshots.
type InfluxStore struct {
	*MemoryStore

	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	logger   *slog.Logger
}

func NewInfluxStore(cfg InfluxConfig, logger *slog.Logger) (*InfluxStore, error) {
	if cfg.URL == "" || cfg.Token == "" || cfg.Org == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("influx config incomplete")
	}
	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	return &InfluxStore{
		MemoryStore: NewMemoryStore(),
		client:      client,
		writeAPI:    client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		logger:      logger.With("component", "influx-store"),
	}, nil
}

func (s *InfluxStore) Close() { s.client.Close() }

func (s *InfluxStore) AppendReading(ctx context.Context, evt model.ReadingEvent) error {
	if err := s.MemoryStore.AppendReading(ctx, evt); err != nil {
		return err
	}
	ts := evt.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	point := influxdb2.NewPoint("reading",
		map[string]string{"device_id": evt.DeviceID, "kind": string(evt.Kind)},
		map[string]interface{}{"value": evt.Value, "unit": evt.Unit},
		ts)
	if err := s.writeAPI.WritePoint(ctx, point); err != nil {
		s.logger.Error("reading write failed", "device", evt.DeviceID, "error", err)
		return fmt.Errorf("write reading: %w", err)
	}
	return nil
}

func (s *InfluxStore) AppendSnapshot(ctx context.Context, snap model.DeviceModeSnapshot) error {
	if err := s.MemoryStore.AppendSnapshot(ctx, snap); err != nil {
		return err
	}
	point := influxdb2.NewPoint("mode_snapshot",
		map[string]string{"device_id": snap.DeviceID, "mode": string(snap.Mode)},
		map[string]interface{}{"id": snap.ID, "note": snap.Note},
		snap.EnteredAt)
	if err := s.writeAPI.WritePoint(ctx, point); err != nil {
		s.logger.Error("snapshot write failed", "device", snap.DeviceID, "error", err)
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func (s *InfluxStore) AppendNotification(ctx context.Context, n model.AlertNotification) error {
	if err := s.MemoryStore.AppendNotification(ctx, n); err != nil {
		return err
	}
	point := influxdb2.NewPoint("alert_notification",
		map[string]string{"device_id": n.DeviceID, "rule_id": n.RuleID},
		map[string]interface{}{"id": n.ID, "value": n.Value},
		n.Timestamp)
	if err := s.writeAPI.WritePoint(ctx, point); err != nil {
		s.logger.Error("notification write failed", "device", n.DeviceID, "error", err)
		return fmt.Errorf("write notification: %w", err)
	}
	return nil
}
