package realtime

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	maxInboundSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Dashboards are served from a different origin; auth is the bearer token.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Frame is the JSON message written to WebSocket clients
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ServeWebSocket upgrades the request and pumps the client's messages until either
// side goes away. The client is unregistered from hub on return.
func ServeWebSocket(w http.ResponseWriter, r *http.Request, hub *Hub, client *Client, heartbeat time.Duration, logger *zap.Logger) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.Unregister(client)
		return fmt.Errorf("websocket upgrade: %w", err)
	}
	defer conn.Close()
	defer hub.Unregister(client)

	if heartbeat <= 0 {
		heartbeat = 30 * time.Second
	}
	pongWait := heartbeat * 2

	// The read side only watches for close frames and keeps the deadline fresh.
	go func() {
		defer hub.Unregister(client)
		conn.SetReadLimit(maxInboundSize)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Debug("websocket read failed", zap.String("client_id", client.ID), zap.Error(err))
				}
				return
			}
		}
	}()

	if err := writeFrame(conn, Frame{
		Event: EventConnected,
		Data:  json.RawMessage(fmt.Sprintf(`{"client_id":%q,"store_id":%q}`, client.ID, client.StoreID.String())),
	}); err != nil {
		return nil
	}

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-client.Messages():
			if !ok {
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return nil
			}
			if err := writeFrame(conn, Frame{Event: msg.Event, Data: msg.Data}); err != nil {
				return nil
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		}
	}
}

func writeFrame(conn *websocket.Conn, f Frame) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(f)
}
