// Package alerting matches readings against configured threshold rules.
package alerting

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/greenhouse-lab/enviroctl/internal/metrics"
	"github.com/greenhouse-lab/enviroctl/internal/model"
)

// RuleStore yields the active threshold rules for one device and sensor kind.
type RuleStore interface {
	ActiveRules(ctx context.Context, deviceID string, kind model.SensorKind) ([]model.AlertRule, error)
}

// NotificationStore appends fired alert notifications.
type NotificationStore interface {
	AppendNotification(ctx context.Context, n model.AlertNotification) error
}

// Evaluator is an event-dispatcher observer. For every rule whose comparison
// holds against the reading value it creates exactly one notification; there
// is no suppression or debouncing, so the same rule firing on consecutive
// readings produces one notification per reading.
type Evaluator struct {
	rules  RuleStore
	sink   NotificationStore
	logger *slog.Logger
}

func NewEvaluator(rules RuleStore, sink NotificationStore, logger *slog.Logger) *Evaluator {
	return &Evaluator{
		rules:  rules,
		sink:   sink,
		logger: logger.With("component", "alert-evaluator"),
	}
}

func (e *Evaluator) Name() string { return "alert-evaluator" }

func (e *Evaluator) OnReading(ctx context.Context, evt model.ReadingEvent) error {
	rules, err := e.rules.ActiveRules(ctx, evt.DeviceID, evt.Kind)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}
	for _, r := range rules {
		if !r.Operator.Compare(evt.Value, r.Threshold) {
			continue
		}
		n := model.AlertNotification{
			ID:        uuid.NewString(),
			DeviceID:  evt.DeviceID,
			RuleID:    r.ID,
			Value:     evt.Value,
			Timestamp: evt.Timestamp,
		}
		if err := e.sink.AppendNotification(ctx, n); err != nil {
			return fmt.Errorf("append notification for rule %s: %w", r.ID, err)
		}
		metrics.AlertsFired.Inc()
		e.logger.Info("alert fired", "device", evt.DeviceID, "rule", r.ID,
			"op", r.Operator, "threshold", r.Threshold, "value", evt.Value)
	}
	return nil
}
