package main

import (
	"encoding/json"
	"sync"
)

// hubEvent pairs a websocket message type with its payload. Payloads are
// marshaled once per broadcast, not per client.
type hubEvent struct {
	kind    string
	payload any
}

type Hub struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
	events  chan hubEvent
}

type Client struct {
	hub  *Hub
	send chan []byte
}

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type boardPayload struct {
	Board      [][]int           `json:"board"`
	NextPlayer int               `json:"next_player"`
	Winner     int               `json:"winner"`
	MoveCount  int               `json:"move_count"`
	Status     string            `json:"status"`
	AiThinking bool              `json:"ai_thinking"`
	History    []historyEntryDTO `json:"history"`
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		events:  make(chan hubEvent, 64),
	}
}

func (h *Hub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case event := <-h.events:
			data, err := json.Marshal(wsMessage{Type: event.kind, Payload: mustMarshal(event.payload)})
			if err != nil {
				continue
			}
			h.mu.Lock()
			for client := range h.clients {
				client.enqueue(data)
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) PublishBoard(payload boardPayload)       { h.publish("board", payload) }
func (h *Hub) PublishHistory(payload historyPayload)   { h.publish("history", payload) }
func (h *Hub) PublishStatus(payload StatusResponse)    { h.publish("status", payload) }
func (h *Hub) PublishReset(payload resetPayload)       { h.publish("reset", payload) }
func (h *Hub) PublishSettings(payload settingsPayload) { h.publish("settings", payload) }

// publish never blocks the game loop; when the event buffer is full the
// update is dropped and the next state change supersedes it.
func (h *Hub) publish(kind string, payload any) {
	select {
	case h.events <- hubEvent{kind: kind, payload: payload}:
	default:
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) HasClients() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients) > 0
}

func (c *Client) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	c.enqueue(data)
}

// enqueue drops the frame when the client's writer is backed up; a slow
// reader never stalls a broadcast.
func (c *Client) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
	}
}
