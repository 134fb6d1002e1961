package mqttbus

import (
	"context"
	"log/slog"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Handler processes one received message. Returning an error only logs it;
// the subscription stays alive.
type Handler func(topic string, msg mqtt.Message) error

// IConsumer is the subscription side of the bus.
type IConsumer interface {
	SetHandler(h Handler)
	Consume(ctx context.Context)
}

// Consumer subscribes to one topic filter and feeds messages to its handler.
type Consumer struct {
	client  mqtt.Client
	topic   string
	qos     byte
	handler Handler
	logger  *slog.Logger
}

func NewConsumer(client mqtt.Client, topic string, qos byte, logger *slog.Logger) *Consumer {
	return &Consumer{
		client: client,
		topic:  topic,
		qos:    qos,
		logger: logger.With("component", "mqtt-consumer", "topic", topic),
	}
}

func (c *Consumer) SetHandler(h Handler) { c.handler = h }

// Consume subscribes and blocks until ctx is cancelled, then unsubscribes.
func (c *Consumer) Consume(ctx context.Context) {
	token := c.client.Subscribe(c.topic, c.qos, func(_ mqtt.Client, msg mqtt.Message) {
		if c.handler == nil {
			c.logger.Warn("message dropped, no handler set")
			return
		}
		if err := c.handler(msg.Topic(), msg); err != nil {
			c.logger.Error("handler failed", "error", err)
		}
	})
	if token.Wait() && token.Error() != nil {
		c.logger.Error("subscribe failed", "error", token.Error())
		return
	}
	c.logger.Info("subscribed")

	<-ctx.Done()

	unsub := c.client.Unsubscribe(c.topic)
	unsub.Wait()
}
