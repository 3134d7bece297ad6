package service

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	EventReady            = "ready"
	EventNewMessage       = "new_message"
	EventPollingUpdate    = "polling_update"
	EventOpenConversation = "open_conversation"

	// Redis channel for cross-process fan-out and the list that keeps the
	// most recent broadcast records for late joiners.
	redisEventChannel    = "careportal:events"
	redisRecentEventsKey = "careportal:recent_broadcasts"

	subscriberBuffer = 16
)

// Event is one change notification delivered to subscribers.
type Event struct {
	Type      string                 `json:"type"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// broadcastEnvelope is the wire form published through Redis. The origin id
// lets each process skip its own broadcasts when they come back around.
type broadcastEnvelope struct {
	ID     string `json:"id"`
	Origin string `json:"origin"`
	Event  Event  `json:"event"`
}

// Broadcaster fans change events out to in-process subscribers and, when
// Redis is configured, to every other process sharing the store.
//
// Delivery to a subscriber is non-blocking: a subscriber that stops draining
// its channel loses events rather than stalling the publisher.
type Broadcaster struct {
	log         *logrus.Logger
	redisClient *redis.Client
	retention   int
	origin      string

	mu     sync.RWMutex
	subs   map[int64]chan Event
	nextID int64

	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// NewBroadcaster creates a broadcaster. redisClient may be nil, in which case
// events stay within the process. Call Stop() during graceful shutdown.
func NewBroadcaster(log *logrus.Logger, redisClient *redis.Client, retention int) *Broadcaster {
	if retention <= 0 {
		retention = 10
	}
	b := &Broadcaster{
		log:         log,
		redisClient: redisClient,
		retention:   retention,
		origin:      uuid.New().String(),
		subs:        map[int64]chan Event{},
		stopChan:    make(chan struct{}),
	}

	if b.redisClient != nil {
		b.wg.Add(1)
		go b.relayLoop()
	}

	return b
}

// Stop shuts the broadcaster down and closes all subscriber channels.
// Safe to call multiple times.
func (b *Broadcaster) Stop() {
	if b.stopped.CompareAndSwap(false, true) {
		close(b.stopChan)
		b.wg.Wait()

		b.mu.Lock()
		for id, ch := range b.subs {
			close(ch)
			delete(b.subs, id)
		}
		b.mu.Unlock()
		b.log.Info("Broadcaster stopped")
	}
}

// Subscribe registers a listener and returns its id and event channel. The
// channel is closed on Unsubscribe or Stop.
func (b *Broadcaster) Subscribe() (int64, <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch
	return id, ch
}

func (b *Broadcaster) Unsubscribe(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subs[id]; ok {
		close(ch)
		delete(b.subs, id)
	}
}

// Publish delivers an event to local subscribers and relays it through Redis
// when configured.
func (b *Broadcaster) Publish(eventType string, payload map[string]interface{}) {
	if b.stopped.Load() {
		return
	}

	event := Event{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}
	b.deliver(event)

	if b.redisClient == nil {
		return
	}

	envelope := broadcastEnvelope{
		ID:     "bcast_" + uuid.New().String(),
		Origin: b.origin,
		Event:  event,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		b.log.Warnf("Failed to marshal broadcast: %+v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.redisClient.Publish(ctx, redisEventChannel, data).Err(); err != nil {
		b.log.Warnf("Failed to publish broadcast: %+v", err)
		return
	}

	// Keep only the newest records; old broadcasts are pruned on every push.
	pipe := b.redisClient.Pipeline()
	pipe.LPush(ctx, redisRecentEventsKey, data)
	pipe.LTrim(ctx, redisRecentEventsKey, 0, int64(b.retention-1))
	if _, err := pipe.Exec(ctx); err != nil {
		b.log.Warnf("Failed to record broadcast: %+v", err)
	}
}

func (b *Broadcaster) deliver(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// relayLoop feeds broadcasts from other processes to local subscribers.
func (b *Broadcaster) relayLoop() {
	defer b.wg.Done()

	pubsub := b.redisClient.Subscribe(context.Background(), redisEventChannel)
	defer pubsub.Close()

	for {
		select {
		case <-b.stopChan:
			return
		case msg, ok := <-pubsub.Channel():
			if !ok {
				return
			}
			var envelope broadcastEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
				b.log.Warnf("Failed to decode broadcast: %+v", err)
				continue
			}
			if envelope.Origin == b.origin {
				continue
			}
			b.deliver(envelope.Event)
		}
	}
}
