package ws

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/coder/websocket"
)

var ErrUnknownClient = errors.New("unknown client")

// Hub tracks one WebSocket connection per session id.
type Hub struct {
	mu           sync.Mutex
	clients      map[string]*websocket.Conn
	writeTimeout time.Duration
}

func NewHub(writeTimeout time.Duration) *Hub {
	if writeTimeout <= 0 {
		writeTimeout = 3 * time.Second
	}
	return &Hub{clients: make(map[string]*websocket.Conn), writeTimeout: writeTimeout}
}

func (h *Hub) Add(id string, conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[id] = conn
	h.mu.Unlock()
}

func (h *Hub) Remove(id string) {
	h.mu.Lock()
	delete(h.clients, id)
	h.mu.Unlock()
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Send writes message to a single session. A failed write drops the client.
// Writes happen outside the lock so a slow client only delays itself.
func (h *Hub) Send(id string, message []byte) error {
	h.mu.Lock()
	conn, ok := h.clients[id]
	h.mu.Unlock()
	if !ok {
		return ErrUnknownClient
	}
	if err := h.write(conn, message); err != nil {
		h.drop(id, conn)
		return err
	}
	return nil
}

func (h *Hub) Broadcast(message []byte) {
	h.mu.Lock()
	targets := make(map[string]*websocket.Conn, len(h.clients))
	for id, conn := range h.clients {
		targets[id] = conn
	}
	h.mu.Unlock()

	var wg sync.WaitGroup
	for id, conn := range targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := h.write(conn, message); err != nil {
				h.drop(id, conn)
			}
		}()
	}
	wg.Wait()
}

// drop forgets id if it still maps to conn, then closes conn.
func (h *Hub) drop(id string, conn *websocket.Conn) {
	h.mu.Lock()
	if h.clients[id] == conn {
		delete(h.clients, id)
	}
	h.mu.Unlock()
	_ = conn.Close(websocket.StatusNormalClosure, "")
}

// CloseAll closes every connection with reason and forgets it.
func (h *Hub) CloseAll(reason string) {
	h.mu.Lock()
	for id, conn := range h.clients {
		_ = conn.Close(websocket.StatusGoingAway, reason)
		delete(h.clients, id)
	}
	h.mu.Unlock()
}

func (h *Hub) write(conn *websocket.Conn, message []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), h.writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, message)
}
