package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"VisitBot/internal/lib/sl"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 512
)

// Commands a dashboard may send.
const (
	CommandWatch   = "watch"
	CommandUnwatch = "unwatch"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Command is a dashboard request, e.g. {"type":"watch","user_id":"628111@s.whatsapp.net"}.
type Command struct {
	Type   string `json:"type"`
	UserID string `json:"user_id,omitempty"`
}

// Client is one dashboard connection. A client watching an officer only
// receives session events of that officer; presence events reach everyone.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	username string
	log      *slog.Logger

	mu    sync.RWMutex
	watch string
}

func (c *Client) setWatch(userID string) {
	c.mu.Lock()
	c.watch = userID
	c.mu.Unlock()
}

// wants reports whether an event about userID should reach the client.
// An empty userID marks an event for every dashboard.
func (c *Client) wants(userID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return userID == "" || c.watch == "" || c.watch == userID
}

// readPump applies dashboard commands and detects disconnects.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("dashboard read failed", sl.Err(err))
			}
			return
		}
		c.apply(data)
	}
}

func (c *Client) apply(data []byte) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		c.log.Debug("invalid dashboard command", sl.Err(err))
		return
	}
	switch cmd.Type {
	case CommandWatch:
		userID := strings.TrimSpace(cmd.UserID)
		c.setWatch(userID)
		c.log.Debug("watching officer", slog.String("user_id", userID))
	case CommandUnwatch:
		c.setWatch("")
		c.log.Debug("watching all officers")
	default:
		c.log.Debug("unknown dashboard command", slog.String("type", cmd.Type))
	}
}

// writePump delivers hub events and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.log.Debug("dashboard write failed", sl.Err(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Authenticator validates a token and returns the username.
type Authenticator interface {
	ValidateToken(token string) (string, error)
}

// ServeWs upgrades an authenticated request and attaches it to the hub.
// An optional ?watch=<jid> starts the client filtered to one officer.
func ServeWs(hub *Hub, auth Authenticator, log *slog.Logger, w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	username, err := auth.ValidateToken(token)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("websocket upgrade failed", sl.Err(err))
		return
	}

	client := &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, 256),
		username: username,
		log:      log.With(sl.Module("ws.client"), slog.String("username", username)),
		watch:    strings.TrimSpace(r.URL.Query().Get("watch")),
	}

	select {
	case hub.register <- client:
	case <-hub.done:
		conn.Close()
		return
	}
	client.log.Debug("dashboard connected", slog.String("watch", client.watch))

	go client.writePump()
	go client.readPump()
}
