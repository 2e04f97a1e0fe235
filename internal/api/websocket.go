// internal/api/websocket.go
package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Corphon/DreamLogger/internal/models"
	"github.com/Corphon/DreamLogger/internal/utils"
)

const (
	wsSendBuffer   = 16
	wsPingInterval = 54 * time.Second
	wsPongTimeout  = 60 * time.Second
	wsWriteTimeout = 10 * time.Second

	EventDreamCreated = "dream_created"
	EventConnected    = "connected"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// WebSocketConnection is the part of *websocket.Conn the hub uses.
type WebSocketConnection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
}

// DreamEvent is pushed to a user's open feeds.
type DreamEvent struct {
	Type      string             `json:"type"`
	Dream     *models.DreamEntry `json:"dream,omitempty"`
	Timestamp string             `json:"timestamp"`
}

// WebSocketClient is one open feed connection.
type WebSocketClient struct {
	conn      WebSocketConnection
	username  string
	send      chan []byte
	done      chan struct{}
	closed    int32
	createdAt time.Time
}

func newWebSocketClient(conn WebSocketConnection, username string) *WebSocketClient {
	return &WebSocketClient{
		conn:      conn,
		username:  username,
		send:      make(chan []byte, wsSendBuffer),
		done:      make(chan struct{}),
		createdAt: time.Now(),
	}
}

// Close closes the connection once.
func (client *WebSocketClient) Close() {
	if atomic.CompareAndSwapInt32(&client.closed, 0, 1) {
		close(client.done)
		client.conn.Close()
	}
}

func (client *WebSocketClient) IsClosed() bool {
	return atomic.LoadInt32(&client.closed) == 1
}

// enqueue drops the message when the client is not keeping up.
func (client *WebSocketClient) enqueue(msg []byte) bool {
	if client.IsClosed() {
		return false
	}
	select {
	case client.send <- msg:
		return true
	default:
		return false
	}
}

// DreamHub fans saved dreams out to the owner's open feed connections.
type DreamHub struct {
	mutex   sync.RWMutex
	clients map[string]map[*WebSocketClient]struct{} // username -> clients
}

func NewDreamHub() *DreamHub {
	return &DreamHub{
		clients: make(map[string]map[*WebSocketClient]struct{}),
	}
}

func (h *DreamHub) register(client *WebSocketClient) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.clients[client.username] == nil {
		h.clients[client.username] = make(map[*WebSocketClient]struct{})
	}
	h.clients[client.username][client] = struct{}{}

	utils.GetLogger().Info("✅ dream feed connected", map[string]interface{}{"username": client.username})
}

func (h *DreamHub) unregister(client *WebSocketClient) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if clients, ok := h.clients[client.username]; ok {
		if _, present := clients[client]; !present {
			return
		}
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clients, client.username)
		}
	}
	client.Close()

	utils.GetLogger().Info("🔌 dream feed disconnected", map[string]interface{}{"username": client.username})
}

// NotifyDream sends d to every open feed of its owner.
func (h *DreamHub) NotifyDream(d *models.Dream) {
	entry := d.Entry()
	msg, err := json.Marshal(DreamEvent{
		Type:      EventDreamCreated,
		Dream:     &entry,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		utils.GetLogger().Error("failed to encode dream event", map[string]interface{}{"error": err.Error()})
		return
	}

	h.mutex.RLock()
	targets := make([]*WebSocketClient, 0, len(h.clients[d.Username]))
	for client := range h.clients[d.Username] {
		targets = append(targets, client)
	}
	h.mutex.RUnlock()

	for _, client := range targets {
		if !client.enqueue(msg) {
			utils.GetLogger().Warn("⚠️ dream feed queue full, closing", map[string]interface{}{"username": client.username})
			h.unregister(client)
		}
	}
}

// ClientCount returns the number of open feeds.
func (h *DreamHub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	n := 0
	for _, clients := range h.clients {
		n += len(clients)
	}
	return n
}

// Shutdown closes every open feed.
func (h *DreamHub) Shutdown() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			client.Close()
		}
	}
	h.clients = make(map[string]map[*WebSocketClient]struct{})
}

// checkSameOrigin accepts requests without an Origin header and same-host origins.
func checkSameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return origin == "http://"+r.Host || origin == "https://"+r.Host
}

func init() {
	upgrader.CheckOrigin = checkSameOrigin
}
