package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func wsURL(s *httptest.Server) string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

func testSubscription() Subscription {
	return NewSubscription("test-key", [4]float64{44.95, 10.35, 45.10, 10.50})
}

func TestClientDeliversMessages(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		// Consume the subscription, then stream two reports.
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		conn.WriteMessage(websocket.TextMessage, []byte(`{"MessageType":"PositionReport","Message":{"UserID":1}}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"MessageType":"PositionReport","Message":{"UserID":2}}`))

		// Hold the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	received := make(chan []byte, 4)
	client := NewClient(wsURL(server), testSubscription(), time.Second)

	err := client.Run(ctx, func(_ context.Context, raw []byte) error {
		received <- raw
		if len(received) == 2 {
			cancel() // run budget spent
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	if got := len(received); got != 2 {
		t.Errorf("received %d messages, want 2", got)
	}
	if client.State() != StateClosed {
		t.Errorf("State() = %v, want %v", client.State(), StateClosed)
	}
}

func TestClientResubscribesWhenQuiet(t *testing.T) {
	var connections atomic.Int32
	subscriptions := make(chan []byte, 16)

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		connections.Add(1)

		// Stay silent: the client must nudge, not hang up.
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}
			subscriptions <- raw
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	client := NewClient(wsURL(server), testSubscription(), 40*time.Millisecond)
	err := client.Run(ctx, func(context.Context, []byte) error {
		t.Error("handler invoked on a silent stream")
		return nil
	})
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	got := len(subscriptions)
	// Initial subscription plus one re-send per elapsed quiet window.
	if got < 2 {
		t.Errorf("server saw %d subscription messages, want at least 2", got)
	}
	if got > 10 {
		t.Errorf("server saw %d subscription messages, want at most one per quiet window", got)
	}
	if n := connections.Load(); n != 1 {
		t.Errorf("server saw %d connections, want 1 (silence must not disconnect)", n)
	}
}

func TestClientHandlerErrorAborts(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		conn.WriteMessage(websocket.TextMessage, []byte(`{"MessageType":"PositionReport","Message":{}}`))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	errStorage := errors.New("storage down")
	client := NewClient(wsURL(server), testSubscription(), time.Second)
	err := client.Run(ctx, func(context.Context, []byte) error {
		return errStorage
	})
	if !errors.Is(err, errStorage) {
		t.Errorf("Run() error = %v, want %v", err, errStorage)
	}
}

func TestClientReconnectsOnDrop(t *testing.T) {
	var connections atomic.Int32

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		connections.Add(1)

		// Accept the subscription, then drop the connection.
		conn.ReadMessage()
		conn.Close()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2500*time.Millisecond)
	defer cancel()

	client := NewClient(wsURL(server), testSubscription(), 50*time.Millisecond)
	err := client.Run(ctx, func(context.Context, []byte) error { return nil })
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	if n := connections.Load(); n < 2 {
		t.Errorf("server saw %d connections, want at least 2 (client must reconnect)", n)
	}
}
