package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/orion-ad/guardian/internal/dashboard"
	"github.com/orion-ad/guardian/internal/testutil"
)

type snapshotMessage struct {
	Type string             `json:"type"`
	Data dashboard.Snapshot `json:"data"`
}

func readSnapshot(t *testing.T, conn *websocket.Conn) snapshotMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	var msg snapshotMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("invalid message: %v", err)
	}
	return msg
}

func TestWebSocketHub_StreamsSnapshots(t *testing.T) {
	dash := dashboard.New(testutil.NewMockBackend(testutil.Alert("a1", "high", "new")), nil)
	hub := NewWebSocketHub(dash, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleConnection))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	first := readSnapshot(t, conn)
	if first.Type != MessageTypeSnapshot || first.Data.Seq != 0 {
		t.Fatalf("first message = %+v, want initial snapshot", first)
	}
	if hub.Clients() != 1 {
		t.Errorf("Clients() = %d, want 1", hub.Clients())
	}

	if err := dash.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	// Intermediate loading snapshots may be skipped or delivered.
	for {
		msg := readSnapshot(t, conn)
		if msg.Data.Seq == 1 && !msg.Data.Loading {
			if len(msg.Data.Alerts) != 1 {
				t.Errorf("alerts = %+v", msg.Data.Alerts)
			}
			break
		}
	}
}

func TestWebSocketHub_RejectsForeignOrigin(t *testing.T) {
	dash := dashboard.New(testutil.NewMockBackend(), nil)
	hub := NewWebSocketHub(dash, []string{"http://localhost:3180"}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleConnection))
	defer srv.Close()

	header := http.Header{"Origin": {"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), header)
	if err == nil {
		t.Fatal("expected handshake failure for foreign origin")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("response = %v, want 403", resp)
	}

	header.Set("Origin", "http://localhost:3180")
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), header)
	if err != nil {
		t.Fatalf("allowed origin rejected: %v", err)
	}
	conn.Close()
}

func TestOffer_KeepsNewest(t *testing.T) {
	ch := make(chan []byte, 2)
	offer(ch, []byte("1"))
	offer(ch, []byte("2"))
	offer(ch, []byte("3"))

	if got := string(<-ch); got != "2" {
		t.Errorf("first = %s, want 2", got)
	}
	if got := string(<-ch); got != "3" {
		t.Errorf("second = %s, want 3", got)
	}
}
