package notify

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialTestHub(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(ServeWS(h, nil))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	waitForClients(t, h, 1)
	return conn
}

func waitForClients(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d clients, got %d", want, h.ClientCount())
}

func TestHub_PublishReachesClient(t *testing.T) {
	t.Parallel()

	h := NewHub()
	go h.Run()
	defer h.Stop()

	conn := dialTestHub(t, h)

	h.Publish(EventProductCreated, map[string]any{"id": "p1", "title": "Keyboard"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if event.Type != EventProductCreated {
		t.Fatalf("expected event %q, got %q", EventProductCreated, event.Type)
	}
	payload, ok := event.Payload.(map[string]any)
	if !ok || payload["id"] != "p1" {
		t.Fatalf("unexpected payload: %+v", event.Payload)
	}
}

func TestHub_ClientDisconnectUnregisters(t *testing.T) {
	t.Parallel()

	h := NewHub()
	go h.Run()
	defer h.Stop()

	conn := dialTestHub(t, h)
	conn.Close()

	waitForClients(t, h, 0)
}

func TestHub_StopClosesClients(t *testing.T) {
	t.Parallel()

	h := NewHub()
	go h.Run()

	conn := dialTestHub(t, h)

	h.Stop()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func TestHub_PublishWithoutClientsDoesNotBlock(t *testing.T) {
	t.Parallel()

	h := NewHub()
	go h.Run()
	defer h.Stop()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			h.Publish(EventStockChanged, map[string]any{"i": i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("publish blocked with no clients")
	}
}
