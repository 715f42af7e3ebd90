// Package notify pushes live messages (new orders, new events) to
// connected dashboards.  Publishing is fire-and-forget: nothing waits for
// a subscriber and subscribers that cannot keep up are disconnected.
package notify

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
)

// Message types sent to subscribers.
const (
	TypeOrderCreated = "order.created"
	TypeEventCreated = "event.created"
)

// Message is the envelope every subscriber receives as JSON.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Broker publishes messages to every live subscriber.
type Broker interface {
	Publish(ctx context.Context, msg Message) error
}

// Hub is the in-process subscriber registry.  It is safe for concurrent
// use and is the only shared mutable state of the server.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*subscriber]struct{}
	buffer int
}

type subscriber struct {
	ch chan []byte
}

// NewHub creates a hub whose subscribers buffer up to buffer messages.
func NewHub(buffer int) *Hub {
	if buffer < 1 {
		buffer = 16
	}
	return &Hub{subs: make(map[*subscriber]struct{}), buffer: buffer}
}

// Subscribe registers a subscriber.  Messages arrive as encoded JSON on
// the returned channel, which is closed when cancel is called or the
// subscriber is dropped for being slow.
func (h *Hub) Subscribe() (<-chan []byte, func()) {
	s := &subscriber{ch: make(chan []byte, h.buffer)}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s.ch, func() { h.remove(s) }
}

func (h *Hub) remove(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[s]; ok {
		delete(h.subs, s)
		close(s.ch)
	}
}

// Len reports the number of live subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Publish encodes msg once and delivers it to every subscriber.
func (h *Hub) Publish(_ context.Context, msg Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	h.broadcast(b)
	return nil
}

// broadcast delivers an already encoded message.  Subscribers with a full
// buffer are dropped rather than blocking the publisher.
func (h *Hub) broadcast(b []byte) {
	var slow []*subscriber
	h.mu.RLock()
	for s := range h.subs {
		select {
		case s.ch <- b:
		default:
			slow = append(slow, s)
		}
	}
	h.mu.RUnlock()
	for _, s := range slow {
		log.Warn().Msg("notify: dropping slow subscriber")
		h.remove(s)
	}
}
