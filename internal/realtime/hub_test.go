package realtime

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestHub builds a hub without a Redis connection; only the local
// delivery paths are exercised.
func newTestHub() *Hub {
	log := zerolog.Nop()
	return &Hub{
		log:  &log,
		subs: make(map[string]map[chan Envelope]struct{}),
	}
}

func addSubscriber(h *Hub, chatID string, buffer int) chan Envelope {
	ch := make(chan Envelope, buffer)
	name := ChannelName(chatID)

	h.mu.Lock()
	if h.subs[name] == nil {
		h.subs[name] = make(map[chan Envelope]struct{})
	}
	h.subs[name][ch] = struct{}{}
	h.mu.Unlock()

	return ch
}

func TestChannelName(t *testing.T) {
	assert.Equal(t, "chat:abc-123", ChannelName("abc-123"))
}

func TestDeliverReachesSubscribers(t *testing.T) {
	h := newTestHub()
	ch1 := addSubscriber(h, "c1", 4)
	ch2 := addSubscriber(h, "c1", 4)
	other := addSubscriber(h, "c2", 4)

	env := Envelope{Event: EventNewMessage, Data: json.RawMessage(`{"content":"hi"}`)}
	h.Deliver("c1", env)

	require.Len(t, ch1, 1)
	require.Len(t, ch2, 1)
	assert.Len(t, other, 0)

	got := <-ch1
	assert.Equal(t, EventNewMessage, got.Event)
	assert.JSONEq(t, `{"content":"hi"}`, string(got.Data))
}

func TestDeliverDropsSlowConsumers(t *testing.T) {
	h := newTestHub()
	slow := addSubscriber(h, "c1", 1)

	h.Deliver("c1", Envelope{Event: EventNewMessage})
	// The buffer is full now; the next delivery must not block.
	done := make(chan struct{})
	go func() {
		h.Deliver("c1", Envelope{Event: EventNewMessage})
		close(done)
	}()

	<-done
	assert.Len(t, slow, 1)
}

func TestRemoveSubscriber(t *testing.T) {
	h := newTestHub()
	ch1 := addSubscriber(h, "c1", 1)
	ch2 := addSubscriber(h, "c1", 1)

	// Others remain, so the Redis channel must stay attached.
	assert.False(t, h.removeSubscriber(ChannelName("c1"), ch1))

	// Last one out detaches.
	assert.True(t, h.removeSubscriber(ChannelName("c1"), ch2))

	// Removing from an unknown channel is a no-op.
	assert.False(t, h.removeSubscriber(ChannelName("nope"), ch1))
}

func TestDeliverAfterRemovalIsSilent(t *testing.T) {
	h := newTestHub()
	ch := addSubscriber(h, "c1", 1)
	h.removeSubscriber(ChannelName("c1"), ch)

	h.Deliver("c1", Envelope{Event: EventNewMessage})
	assert.Len(t, ch, 0)
}
