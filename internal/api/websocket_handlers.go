// internal/api/websocket_handlers.go
package api

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Corphon/DreamLogger/internal/utils"
)

// DreamFeed upgrades to a websocket that receives the user's newly saved dreams.
func (h *Handler) DreamFeed(c *gin.Context) {
	username, _ := GetUserFromContext(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.GetLogger().Warn("❌ websocket upgrade failed", map[string]interface{}{"error": err.Error()})
		return
	}

	client := newWebSocketClient(conn, username)
	h.hub.register(client)

	welcome, _ := json.Marshal(DreamEvent{Type: EventConnected, Timestamp: time.Now().UTC().Format(time.RFC3339)})
	client.enqueue(welcome)

	go h.writePump(client)
	h.readPump(client)
}

// readPump discards client messages and tracks pongs until the connection drops.
func (h *Handler) readPump(client *WebSocketClient) {
	defer h.hub.unregister(client)

	client.conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Handler) writePump(client *WebSocketClient) {
	ticker := time.NewTicker(wsPingInterval)
	defer func() {
		ticker.Stop()
		client.Close()
	}()

	for {
		select {
		case message := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-client.done:
			return

		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
