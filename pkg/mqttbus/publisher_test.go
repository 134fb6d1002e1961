package mqttbus

import (
	"context"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// stuckToken never completes, like a broker that stopped acknowledging.
type stuckToken struct{}

func (stuckToken) Wait() bool                     { <-make(chan struct{}); return false }
func (stuckToken) WaitTimeout(d time.Duration) bool { time.Sleep(d); return false }
func (stuckToken) Done() <-chan struct{}          { return nil }
func (stuckToken) Error() error                   { return nil }

type doneToken struct {
	err error
}

func (t doneToken) Wait() bool                   { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t doneToken) Error() error { return t.err }

type stubClient struct {
	token mqtt.Token
}

func (c *stubClient) IsConnected() bool       { return true }
func (c *stubClient) IsConnectionOpen() bool  { return true }
func (c *stubClient) Connect() mqtt.Token     { return doneToken{} }
func (c *stubClient) Disconnect(quiesce uint) {}
func (c *stubClient) Publish(string, byte, bool, interface{}) mqtt.Token {
	return c.token
}
func (c *stubClient) Subscribe(string, byte, mqtt.MessageHandler) mqtt.Token {
	return doneToken{}
}
func (c *stubClient) SubscribeMultiple(map[string]byte, mqtt.MessageHandler) mqtt.Token {
	return doneToken{}
}
func (c *stubClient) Unsubscribe(...string) mqtt.Token         { return doneToken{} }
func (c *stubClient) AddRoute(string, mqtt.MessageHandler)     {}
func (c *stubClient) OptionsReader() mqtt.ClientOptionsReader { return mqtt.ClientOptionsReader{} }

func TestPublishHonorsContextDeadline(t *testing.T) {
	p := NewPublisher(&stubClient{token: stuckToken{}})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := p.Publish(ctx, "sensor/reading/dev-1", 1, []byte("x"))
	if err == nil {
		t.Fatalf("expected an error when the broker never acknowledges")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected the deadline error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("Publish blocked %v past an expired context", elapsed)
	}
}

func TestPublishReturnsTokenError(t *testing.T) {
	p := NewPublisher(&stubClient{token: doneToken{err: errors.New("connection lost")}})
	if err := p.Publish(context.Background(), "t", 1, []byte("x")); err == nil {
		t.Fatalf("expected the broker error to surface")
	}
}

func TestPublishSucceedsOnAcknowledgedToken(t *testing.T) {
	p := NewPublisher(&stubClient{token: doneToken{}})
	if err := p.Publish(context.Background(), "t", 1, []byte("x")); err != nil {
		t.Fatalf("Publish: %v", err)
	}
}
