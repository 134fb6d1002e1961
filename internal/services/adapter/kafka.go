package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/greenhouse-lab/enviroctl/internal/model"
)

// KafkaNotifier publishes notifications on a message bus topic, keyed by
// device so per-device ordering is preserved.
type KafkaNotifier struct {
	writer *kafka.Writer
	logger *slog.Logger
}

func NewKafkaNotifier(brokers []string, topic string, logger *slog.Logger) (*KafkaNotifier, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers provided")
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &KafkaNotifier{
		writer: writer,
		logger: logger.With("component", "notifier-kafka", "topic", topic),
	}, nil
}

func (k *KafkaNotifier) Name() string { return NotifierKafka }

func (k *KafkaNotifier) Notify(ctx context.Context, deviceID, title, message string) error {
	msg := model.NotificationMessage{
		DeviceID:  deviceID,
		Title:     title,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	if err := k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(deviceID),
		Value: value,
	}); err != nil {
		return fmt.Errorf("write notification: %w", err)
	}
	k.logger.Debug("notification published", "device", deviceID, "title", title)
	return nil
}

func (k *KafkaNotifier) Close() error { return k.writer.Close() }
