package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/greenhouse-lab/enviroctl/internal/model"
)

// HTTPActuator POSTs the command list to a device-control endpoint. The
// request carries both the caller's context and the client timeout, and the
// endpoint sits behind a circuit breaker so an unreachable device trips fast
// instead of burning the tick's deadline on every call.
type HTTPActuator struct {
	endpoint string
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker
	logger   *slog.Logger
}

func NewHTTPActuator(endpoint string, timeout time.Duration, logger *slog.Logger) *HTTPActuator {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "actuator-http",
		Timeout: 10 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
	})
	return &HTTPActuator{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		breaker:  breaker,
		logger:   logger.With("component", "actuator-http", "endpoint", endpoint),
	}
}

func (h *HTTPActuator) Name() string { return ActuatorHTTP }

func (h *HTTPActuator) ApplyCommands(ctx context.Context, deviceID string, cmds []model.ActuatorCommand) error {
	msg := model.CommandMessage{DeviceID: deviceID, Commands: cmds, Timestamp: time.Now().UTC()}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode commands: %w", err)
	}

	_, err = h.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := h.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("endpoint status %d", resp.StatusCode)
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("deliver commands to %s: %w", h.endpoint, err)
	}
	h.logger.Debug("commands delivered", "device", deviceID, "count", len(cmds))
	return nil
}
