package realtime

import (
	"bufio"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamSSE_OutlivesServerWriteTimeout(t *testing.T) {
	hub := NewHub()
	storeID := uuid.New()

	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := hub.Register(storeID, "u1")
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		defer hub.Unregister(c)

		assert.NoError(t, KeepStreamOpen(w))
		SetSSEHeaders(w.Header())
		w.WriteHeader(http.StatusOK)
		_ = StreamSSE(r.Context(), w.(flushWriter), c, 50*time.Millisecond)
	}))
	srv.Config.WriteTimeout = 300 * time.Millisecond
	srv.Start()
	defer srv.Close()
	defer hub.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	events := make(chan string, 64)
	go func() {
		defer close(events)
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			if name, ok := strings.CutPrefix(sc.Text(), "event: "); ok {
				events <- name
			}
		}
	}()

	require.Eventually(t, func() bool { return hub.StoreClientCount(storeID) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(900 * time.Millisecond)
	hub.Broadcast(storeID, Message{Event: "new_order", Data: []byte(`{"order_number":"ORD-1"}`)})

	timeout := time.After(3 * time.Second)
	for {
		select {
		case name, ok := <-events:
			require.True(t, ok, "stream closed before new_order arrived")
			if name == "new_order" {
				return
			}
		case <-timeout:
			t.Fatal("new_order was not delivered")
		}
	}
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }
func (brokenWriter) Flush()                    {}

func TestStreamSSE_ReturnsWriteError(t *testing.T) {
	hub := NewHub()
	c, err := hub.Register(uuid.New(), "u1")
	require.NoError(t, err)
	defer hub.Unregister(c)

	done := make(chan error, 1)
	go func() { done <- StreamSSE(t.Context(), brokenWriter{}, c, time.Minute) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken pipe")
	case <-time.After(2 * time.Second):
		t.Fatal("stream kept running after a failed write")
	}
}

func TestKeepStreamOpen_UnsupportedWriter(t *testing.T) {
	assert.ErrorIs(t, KeepStreamOpen(httptest.NewRecorder()), http.ErrNotSupported)
}
