package service

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func waitForEvent(t *testing.T, ch <-chan Event, eventType string) Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case event, ok := <-ch:
			require.True(t, ok, "channel closed before %q arrived", eventType)
			if event.Type == eventType {
				return event
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q", eventType)
		}
	}
}

func TestBroadcasterDeliversToSubscribers(t *testing.T) {
	b := NewBroadcaster(newTestLogger(), nil, 10)
	defer b.Stop()

	_, first := b.Subscribe()
	_, second := b.Subscribe()

	b.Publish(EventNewMessage, map[string]interface{}{"conversationId": "conv_1"})

	for _, ch := range []<-chan Event{first, second} {
		event := waitForEvent(t, ch, EventNewMessage)
		assert.Equal(t, "conv_1", event.Payload["conversationId"])
		assert.False(t, event.Timestamp.IsZero())
	}
}

func TestBroadcasterUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster(newTestLogger(), nil, 10)
	defer b.Stop()

	id, ch := b.Subscribe()
	b.Unsubscribe(id)

	_, ok := <-ch
	assert.False(t, ok)

	// Publishing after unsubscribe must not panic.
	b.Publish(EventPollingUpdate, nil)
}

func TestBroadcasterDropsWhenSubscriberIsFull(t *testing.T) {
	b := NewBroadcaster(newTestLogger(), nil, 10)
	defer b.Stop()

	_, ch := b.Subscribe()

	// Well past the channel buffer; the publisher must never block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*3; i++ {
			b.Publish(EventPollingUpdate, nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher blocked on a slow subscriber")
	}

	received := 0
	for {
		select {
		case <-ch:
			received++
		default:
			assert.Equal(t, subscriberBuffer, received)
			return
		}
	}
}

// Requires a running Redis; set REDIS_ADDR to enable.
func TestBroadcasterRelaysAcrossInstances(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	require.NoError(t, client.Ping(context.Background()).Err())

	sender := NewBroadcaster(newTestLogger(), client, 10)
	defer sender.Stop()
	receiver := NewBroadcaster(newTestLogger(), client, 10)
	defer receiver.Stop()

	_, remote := receiver.Subscribe()
	_, local := sender.Subscribe()

	// Give the receiver's subscription a moment to establish.
	time.Sleep(200 * time.Millisecond)

	sender.Publish(EventNewMessage, map[string]interface{}{"conversationId": "conv_x"})

	event := waitForEvent(t, remote, EventNewMessage)
	assert.Equal(t, "conv_x", event.Payload["conversationId"])

	// The sender hears its own publish locally exactly once, not again via
	// the relay.
	waitForEvent(t, local, EventNewMessage)
	select {
	case extra := <-local:
		t.Fatalf("unexpected duplicate event: %+v", extra)
	case <-time.After(300 * time.Millisecond):
	}

	// The recent-broadcast list keeps the newest records.
	count, err := client.LLen(context.Background(), redisRecentEventsKey).Result()
	require.NoError(t, err)
	assert.Greater(t, count, int64(0))
}

func TestBroadcasterStopIsIdempotent(t *testing.T) {
	b := NewBroadcaster(newTestLogger(), nil, 10)
	_, ch := b.Subscribe()

	b.Stop()
	b.Stop()

	_, ok := <-ch
	assert.False(t, ok)

	// Publish after stop is a no-op.
	b.Publish(EventReady, nil)
}
