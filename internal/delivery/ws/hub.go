// Package ws pushes reservation events to browsers over WebSocket so open week grids can refresh.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gymbooking/internal/domain"
)

const sendBuffer = 64

// Hub tracks connected clients and broadcasts events to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	logger  *slog.Logger
}

type client struct {
	send chan []byte
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{clients: make(map[*client]struct{}), logger: logger}
}

func (h *Hub) register() *client {
	c := &client{send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("websocket client connected", "clients", n)
	return c
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("websocket client disconnected", "clients", n)
}

// gridUpdate is what browsers receive. It names the slot that changed and
// never who booked it or which reservation moved.
type gridUpdate struct {
	Type       string    `json:"type"`
	BlockID    string    `json:"block_id,omitempty"`
	Date       string    `json:"date,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publish implements domain.EventPublisher. Slow clients whose buffer is full are dropped.
func (h *Hub) Publish(ctx context.Context, evt domain.ReservationEvent) error {
	msg, err := json.Marshal(gridUpdate{
		Type:       evt.Type,
		BlockID:    evt.BlockID,
		Date:       evt.Date,
		OccurredAt: evt.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			delete(h.clients, c)
			close(c.send)
			h.logger.WarnContext(ctx, "websocket client too slow, dropped")
		}
	}
	return nil
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
