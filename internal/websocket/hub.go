package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"studybuddy-be/internal/pkg/logger"
	"studybuddy-be/pkg/events"
)

// Hub broadcasts pack and quiz upgrade events to every connected client.
// The extension has no per-user channels; each open side panel simply
// mirrors the upgrade stream.
type Hub struct {
	clients map[*Client]struct{}

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	mu sync.RWMutex

	logger logger.ILogger
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]struct{}),
		logger:     log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"clients": h.clientCount()})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"clients": h.clientCount()})
		}
	}
}

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends one event to every connected client. Clients whose send
// buffer is full are dropped; a stuck side panel must not stall the rest.
func (h *Hub) Broadcast(event events.Event) {
	data, err := json.Marshal(map[string]interface{}{
		"type": event.EventType(),
		"data": event.Payload(),
	})
	if err != nil {
		h.logger.Warn("Hub", "Failed to marshal event", map[string]interface{}{"type": event.EventType()})
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping client", nil)
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}

// ConsumeBus forwards upgrade events from the bus to connected clients.
// Runs until ctx is cancelled.
func (h *Hub) ConsumeBus(ctx context.Context, bus *events.Bus) {
	stream, err := bus.Subscribe(ctx)
	if err != nil {
		h.logger.Error("Hub", "Failed to subscribe to event bus", map[string]interface{}{"error": err.Error()})
		return
	}

	for event := range stream {
		switch event.EventType() {
		case events.TypeStudyPackUpgraded, events.TypeQuizUpgraded, events.TypeStudyPackCreated:
			h.Broadcast(event)
		}
	}
}
