package notify

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialHub(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Clients() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, got %d", n, h.Clients())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubBroadcastsToMatchingClients(t *testing.T) {
	hub := NewHub(nil, nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	all := dialHub(t, srv, "")
	mine := dialHub(t, srv, "?userId=u1")
	other := dialHub(t, srv, "?userId=u2")
	waitForClients(t, hub, 3)

	if err := hub.Notify(context.Background(), sampleSummary()); err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	for _, conn := range []*websocket.Conn{all, mine} {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("expected frame, got %v", err)
		}
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil || ev.Type != "settlement" {
			t.Fatalf("unexpected frame %s", data)
		}
	}

	_ = other.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	if _, _, err := other.ReadMessage(); err == nil {
		t.Fatalf("expected filtered client to receive nothing")
	}
}

func TestHubDropsDisconnectedClients(t *testing.T) {
	hub := NewHub(nil, nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dialHub(t, srv, "")
	waitForClients(t, hub, 1)
	conn.Close()
	waitForClients(t, hub, 0)

	dialHub(t, srv, "")
	waitForClients(t, hub, 1)
	hub.Close()
	waitForClients(t, hub, 0)
}
