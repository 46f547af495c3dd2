// Package ws streams game events to websocket subscribers.
package ws

import (
	"context"
	"sync"

	"rps_arena/internal/events"
	"rps_arena/internal/logger"
)

// Hub fans encoded events out to connected clients. A client with no
// subscriptions receives every event; otherwise only events for the pins
// it subscribed to.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	logger.Debug("ws client registered", "account", c.Account, "clients", n)
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.Send)
	}
	h.mu.Unlock()
	logger.Debug("ws client unregistered", "account", c.Account)
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Notify implements events.Sink.
func (h *Hub) Notify(ctx context.Context, e events.Event) {
	payload, err := events.Encode(e)
	if err != nil {
		logger.Error("ws encode event", "event", e.Name(), "error", err)
		return
	}
	h.Broadcast(e.MatchID(), payload)
}

// Broadcast queues payload for every client interested in pin. Slow clients
// whose buffer is full are dropped.
func (h *Hub) Broadcast(pin string, payload []byte) {
	var slow []*Client

	h.mu.RLock()
	for c := range h.clients {
		if !c.wants(pin) {
			continue
		}
		select {
		case c.Send <- payload:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		logger.Warn("ws client too slow, dropping", "account", c.Account)
		h.unregister(c)
	}
}

// deliver queues payload for one client if it is still registered. Send is
// only closed under the write lock, so holding the read lock makes the send safe.
func (h *Hub) deliver(c *Client, payload []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.clients[c]; !ok {
		return false
	}
	select {
	case c.Send <- payload:
		return true
	default:
		return false
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.Send)
	}
	h.mu.Unlock()
}
