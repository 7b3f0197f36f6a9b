package ws

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
)

// newHubServer registers every accepted connection under the id given in the
// query string and keeps it open until the client goes away.
func newHubServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		id := r.URL.Query().Get("id")
		hub.Add(id, conn)
		defer hub.Remove(id)
		for {
			if _, _, err := conn.Read(context.Background()); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?id=" + id
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Count() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", n, hub.Count())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func read(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(data)
}

func TestHub_SendTargetsOneSession(t *testing.T) {
	hub := NewHub(time.Second)
	srv := newHubServer(t, hub)
	alice := dial(t, srv, "alice")
	bob := dial(t, srv, "bob")
	waitForClients(t, hub, 2)

	if err := hub.Send("alice", []byte("for alice")); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := hub.Send("bob", []byte("for bob")); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if got := read(t, alice); got != "for alice" {
		t.Errorf("alice got %q", got)
	}
	if got := read(t, bob); got != "for bob" {
		t.Errorf("bob got %q", got)
	}
}

func TestHub_Broadcast(t *testing.T) {
	hub := NewHub(time.Second)
	srv := newHubServer(t, hub)
	a := dial(t, srv, "a")
	b := dial(t, srv, "b")
	waitForClients(t, hub, 2)

	hub.Broadcast([]byte("server restarting"))

	for _, c := range []*websocket.Conn{a, b} {
		if got := read(t, c); got != "server restarting" {
			t.Errorf("got %q", got)
		}
	}
}

func TestHub_SendUnknown(t *testing.T) {
	hub := NewHub(0)
	if err := hub.Send("ghost", []byte("x")); !errors.Is(err, ErrUnknownClient) {
		t.Errorf("err = %v, want ErrUnknownClient", err)
	}
}

func TestHub_CloseAll(t *testing.T) {
	hub := NewHub(time.Second)
	srv := newHubServer(t, hub)
	conn := dial(t, srv, "solo")
	waitForClients(t, hub, 1)

	done := make(chan struct{})
	go func() {
		hub.CloseAll("shutting down")
		close(done)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, _, err := conn.Read(ctx); websocket.CloseStatus(err) != websocket.StatusGoingAway {
		t.Errorf("expected going-away close, got %v", err)
	}
	<-done
	if hub.Count() != 0 {
		t.Errorf("hub still tracks %d clients", hub.Count())
	}
}

func TestHub_SlowClientDoesNotDelayOthers(t *testing.T) {
	hub := NewHub(3 * time.Second)
	srv := newHubServer(t, hub)
	dial(t, srv, "stuck") // never reads
	fast := dial(t, srv, "fast")
	waitForClients(t, hub, 2)

	stuckDone := make(chan error, 1)
	go func() {
		stuckDone <- hub.Send("stuck", make([]byte, 64<<20))
	}()
	time.Sleep(50 * time.Millisecond)

	start := time.Now()
	if err := hub.Send("fast", []byte("still here")); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got := read(t, fast); got != "still here" {
		t.Errorf("fast got %q", got)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("send to a healthy client took %s behind a stalled one", elapsed)
	}

	select {
	case <-stuckDone:
	case <-time.After(10 * time.Second):
		t.Fatal("stalled send never returned")
	}
}
