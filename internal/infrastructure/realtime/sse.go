package realtime

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SSE event names besides the live event types
const (
	EventConnected = "connected"
	EventHeartbeat = "heartbeat"
)

// flushWriter is satisfied by gin.ResponseWriter and httptest.ResponseRecorder
type flushWriter interface {
	io.Writer
	http.Flusher
}

// SetSSEHeaders prepares a response for an event stream
func SetSSEHeaders(h http.Header) {
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
}

// KeepStreamOpen lifts the server's write timeout for a long-lived response.
// Writers that cannot set deadlines (test recorders) report http.ErrNotSupported.
func KeepStreamOpen(w http.ResponseWriter) error {
	return http.NewResponseController(w).SetWriteDeadline(time.Time{})
}

// StreamSSE writes the client's messages as server-sent events until ctx ends,
// the client is unregistered or a write fails. A heartbeat comment keeps
// proxies from timing out.
func StreamSSE(ctx context.Context, w flushWriter, client *Client, heartbeat time.Duration) error {
	err := writeEvent(w, Message{
		Event: EventConnected,
		Data:  fmt.Appendf(nil, `{"client_id":%q,"store_id":%q}`, client.ID, client.StoreID.String()),
	})
	if err != nil {
		return err
	}

	if heartbeat <= 0 {
		heartbeat = 30 * time.Second
	}
	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			err = writeEvent(w, Message{
				Event: EventHeartbeat,
				Data:  fmt.Appendf(nil, `{"timestamp":%d}`, time.Now().Unix()),
			})
		case msg, ok := <-client.Messages():
			if !ok {
				return nil
			}
			err = writeEvent(w, msg)
		}
		if err != nil {
			return err
		}
	}
}

func writeEvent(w flushWriter, msg Message) error {
	var buf bytes.Buffer
	if msg.Event != "" {
		fmt.Fprintf(&buf, "event: %s\n", msg.Event)
	}
	if msg.ID != "" {
		fmt.Fprintf(&buf, "id: %s\n", msg.ID)
	}
	fmt.Fprintf(&buf, "data: %s\n\n", msg.Data)
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write %s event: %w", msg.Event, err)
	}
	w.Flush()
	return nil
}
