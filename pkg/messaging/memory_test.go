package messaging

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan []byte) []byte {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestMemoryBrokerPublishSubscribe(t *testing.T) {
	broker := NewMemoryBroker()
	defer broker.Close()

	ch, err := broker.Subscribe(context.Background(), "events")
	require.NoError(t, err)

	require.NoError(t, broker.Publish(context.Background(), "events", map[string]string{"type": "ping"}))

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(receive(t, ch), &decoded))
	assert.Equal(t, "ping", decoded["type"])
}

func TestMemoryBrokerChannelIsolation(t *testing.T) {
	broker := NewMemoryBroker()
	defer broker.Close()

	a, err := broker.Subscribe(context.Background(), "a")
	require.NoError(t, err)
	b, err := broker.Subscribe(context.Background(), "b")
	require.NoError(t, err)

	require.NoError(t, broker.Publish(context.Background(), "a", "hello"))

	receive(t, a)
	select {
	case msg := <-b:
		t.Fatalf("message leaked across channels: %s", msg)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestMemoryBrokerFanOut(t *testing.T) {
	broker := NewMemoryBroker()
	defer broker.Close()

	first, err := broker.Subscribe(context.Background(), "events")
	require.NoError(t, err)
	second, err := broker.Subscribe(context.Background(), "events")
	require.NoError(t, err)

	require.NoError(t, broker.Publish(context.Background(), "events", "hello"))
	receive(t, first)
	receive(t, second)
}

func TestMemoryBrokerContextCancelUnsubscribes(t *testing.T) {
	broker := NewMemoryBroker()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := broker.Subscribe(ctx, "events")
	require.NoError(t, err)

	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel never closed after cancel")
		}
	}
}

func TestMemoryBrokerClosed(t *testing.T) {
	broker := NewMemoryBroker()
	require.NoError(t, broker.Close())

	assert.Error(t, broker.Publish(context.Background(), "events", "hello"))
	_, err := broker.Subscribe(context.Background(), "events")
	assert.Error(t, err)

	assert.NoError(t, broker.Close(), "closing twice is harmless")
}
