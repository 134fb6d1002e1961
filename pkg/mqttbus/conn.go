// Package mqttbus wraps the paho MQTT client with the connection, publish
// and subscribe plumbing the services share.
package mqttbus

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Config holds broker connection settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	ClientID string
}

const connectRetries = 4

// Connect dials the broker, retrying with exponential backoff. The client is
// disconnected when ctx is cancelled.
func Connect(ctx context.Context, cfg Config) (mqtt.Client, error) {
	addr := fmt.Sprintf("tcp://%s:%d", cfg.Host, cfg.Port)
	opts := mqtt.NewClientOptions().
		AddBroker(addr).
		SetUsername(cfg.User).
		SetPassword(cfg.Password).
		SetClientID(cfg.ClientID).
		SetCleanSession(true)

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 10 * time.Second

	var client mqtt.Client
	err := backoff.Retry(func() error {
		client = mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			return token.Error()
		}
		return nil
	}, backoff.WithMaxRetries(bo, connectRetries))
	if err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", addr, err)
	}

	go func() {
		<-ctx.Done()
		client.Disconnect(250)
	}()
	return client, nil
}
