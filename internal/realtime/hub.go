// Package realtime fans chat events out to connected clients.
//
// Messages are published to Redis Pub/Sub on a channel per chat
// ("chat:{chatID}"), so delivery works across multiple API instances. The
// Hub maintains one Redis subscription per active chat and relays incoming
// payloads to the in-process subscriber channels that back each SSE
// connection.
package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// EventNewMessage is the event name clients listen for on chat streams.
const EventNewMessage = "new-message"

// Envelope is the wire format carried over Redis and delivered to
// subscribers.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ChannelName returns the Redis Pub/Sub channel for a chat.
func ChannelName(chatID string) string {
	return "chat:" + chatID
}

// Hub bridges Redis Pub/Sub to per-connection Go channels.
type Hub struct {
	rdb *redis.Client
	log *zerolog.Logger

	// pubsub is a single connection whose channel set follows the chats
	// that currently have local subscribers.
	pubsub *redis.PubSub

	mu     sync.Mutex
	subs   map[string]map[chan Envelope]struct{}
	closed bool
}

// NewHub creates the hub and starts its relay loop.
func NewHub(rdb *redis.Client, log *zerolog.Logger) *Hub {
	h := &Hub{
		rdb:    rdb,
		log:    log,
		pubsub: rdb.Subscribe(context.Background()),
		subs:   make(map[string]map[chan Envelope]struct{}),
	}

	go h.run()

	return h
}

// run relays Redis messages to local subscribers. Slow consumers are
// dropped-from rather than blocked-on: an SSE client that cannot keep up
// misses events instead of stalling every other subscriber.
func (h *Hub) run() {
	for msg := range h.pubsub.Channel() {
		var env Envelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			h.log.Warn().Err(err).Str("channel", msg.Channel).Msg("discarding malformed realtime payload")
			continue
		}

		h.mu.Lock()
		for ch := range h.subs[msg.Channel] {
			select {
			case ch <- env:
			default:
			}
		}
		h.mu.Unlock()
	}
}

// Subscribe registers a subscriber for a chat and returns its event channel
// plus a cancel function. The first subscriber for a chat attaches the Redis
// subscription; the last one leaving detaches it.
func (h *Hub) Subscribe(ctx context.Context, chatID string) (<-chan Envelope, func(), error) {
	name := ChannelName(chatID)
	ch := make(chan Envelope, 16)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, nil, context.Canceled
	}
	first := len(h.subs[name]) == 0
	if h.subs[name] == nil {
		h.subs[name] = make(map[chan Envelope]struct{})
	}
	h.subs[name][ch] = struct{}{}
	h.mu.Unlock()

	if first {
		if err := h.pubsub.Subscribe(ctx, name); err != nil {
			h.removeSubscriber(name, ch)
			return nil, nil, err
		}
	}

	cancel := func() {
		if h.removeSubscriber(name, ch) {
			// Detach from Redis once nobody local is listening.
			if err := h.pubsub.Unsubscribe(context.Background(), name); err != nil {
				h.log.Warn().Err(err).Str("channel", name).Msg("failed to unsubscribe realtime channel")
			}
		}
	}

	return ch, cancel, nil
}

// removeSubscriber drops ch and reports whether the chat has no local
// subscribers left.
func (h *Hub) removeSubscriber(name string, ch chan Envelope) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.subs[name]; ok {
		delete(set, ch)
		if len(set) == 0 {
			delete(h.subs, name)
			return !h.closed
		}
	}
	return false
}

// Publish serializes the event and publishes it to the chat's Redis channel.
func (h *Hub) Publish(ctx context.Context, chatID, event string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(Envelope{Event: event, Data: raw})
	if err != nil {
		return err
	}

	return h.rdb.Publish(ctx, ChannelName(chatID), payload).Err()
}

// Deliver pushes an envelope directly to local subscribers of a chat,
// bypassing Redis. Used as a fallback when Redis is unavailable so
// single-instance deployments keep working.
func (h *Hub) Deliver(chatID string, env Envelope) {
	name := ChannelName(chatID)

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[name] {
		select {
		case ch <- env:
		default:
		}
	}
}

// Close shuts the hub down and closes all subscriber channels.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	for name, set := range h.subs {
		for ch := range set {
			close(ch)
		}
		delete(h.subs, name)
	}
	h.mu.Unlock()

	if err := h.pubsub.Close(); err != nil {
		h.log.Warn().Err(err).Msg("failed to close realtime pubsub")
	}
}
