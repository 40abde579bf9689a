package crm

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans live opportunity-list updates out to websocket subscribers,
// keyed by venue. Each connected UI tab subscribes to one venue.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]string
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]string)}
}

// Subscribe upgrades the request to a websocket bound to venue. The
// connection is held open until the client goes away; incoming frames
// are drained and discarded.
func (h *Hub) Subscribe(w http.ResponseWriter, r *http.Request, venue string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[CRM] websocket upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = venue
	h.mu.Unlock()

	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast pushes the venue's current opportunity list to all its
// subscribers. Dead connections are dropped on write failure.
func (h *Hub) Broadcast(venue string, list []Opportunity) {
	payload, err := json.Marshal(map[string]any{
		"venue":         venue,
		"opportunities": list,
	})
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, subscribed := range h.clients {
		if subscribed != venue {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// Subscribers reports the live connection count (for the ops page).
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
