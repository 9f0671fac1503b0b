package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"VisitBot/bot/chat"
	"VisitBot/internal/lib/sl"
)

const (
	EventStateChanged   = "state_changed"
	EventSessionClosed  = "session_closed"
	EventDashboardJoin  = "dashboard_joined"
	EventDashboardLeave = "dashboard_left"
)

// Event represents a WebSocket event sent to dashboard clients.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`

	// officer the event is about; empty for presence events
	userID string
}

// PresenceEvent tells dashboards who else is watching.
type PresenceEvent struct {
	Username   string `json:"username"`
	Dashboards int    `json:"dashboards"`
}

// SessionEvent describes a conversation without exposing the whole visit.
type SessionEvent struct {
	UserID    string    `json:"user_id"`
	State     string    `json:"state"`
	VisitID   string    `json:"visit_id,omitempty"`
	VisitType string    `json:"visit_type,omitempty"`
	Code      string    `json:"code,omitempty"`
	Name      string    `json:"name,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Hub maintains the set of active WebSocket clients and broadcasts events.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	log        *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        log.With(sl.Module("ws")),
	}
}

// Run is the hub's event loop; it returns when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return nil

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.deliver(presence(EventDashboardJoin, client.username, len(h.clients)))
			h.mu.Unlock()
			h.log.Info("dashboard joined", slog.String("username", client.username))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.deliver(presence(EventDashboardLeave, client.username, len(h.clients)))
			}
			h.mu.Unlock()
			h.log.Info("dashboard left", slog.String("username", client.username))

		case event := <-h.broadcast:
			h.mu.Lock()
			h.deliver(event)
			h.mu.Unlock()
		}
	}
}

func presence(eventType, username string, dashboards int) *Event {
	return &Event{Type: eventType, Data: PresenceEvent{Username: username, Dashboards: dashboards}}
}

// deliver sends event to every interested client, dropping clients that
// cannot keep up. h.mu must be held.
func (h *Hub) deliver(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Warn("marshal event", sl.Err(err))
		return
	}
	for client := range h.clients {
		if !client.wants(event.userID) {
			continue
		}
		select {
		case client.send <- data:
		default:
			close(client.send)
			delete(h.clients, client)
			h.log.Warn("slow dashboard dropped", slog.String("username", client.username))
		}
	}
}

// ClientCount returns the number of connected dashboards.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) OnStateChanged(session chat.Session) {
	h.publish(EventStateChanged, session)
}

func (h *Hub) OnSessionClosed(session chat.Session) {
	h.publish(EventSessionClosed, session)
}

// publish never blocks the conversation; events are dropped when the queue is full.
func (h *Hub) publish(eventType string, session chat.Session) {
	data := SessionEvent{
		UserID:    session.UserID,
		State:     string(session.State),
		UpdatedAt: session.UpdatedAt,
	}
	if session.Visit != nil {
		data.VisitID = session.Visit.ID
		data.VisitType = string(session.Visit.Type)
		data.Code = session.Visit.Code
		data.Name = session.Visit.Name
	}
	select {
	case h.broadcast <- &Event{Type: eventType, Data: data, userID: session.UserID}:
	default:
		h.log.Warn("event dropped", slog.String("type", eventType), slog.String("user_id", session.UserID))
	}
}
