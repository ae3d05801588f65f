package ws

import (
	"log"
	"sync"

	"github.com/arushsrivastava/HectoClash-Game/internal/game"
)

// Hub fans session events out to attached spectator connections.
// Satisfies game.Broadcaster.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]map[game.Conn]bool
}

func NewHub() *Hub {
	return &Hub{
		sessions: make(map[string]map[game.Conn]bool),
	}
}

func (h *Hub) Attach(sessionID string, conn game.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sessions[sessionID] == nil {
		h.sessions[sessionID] = make(map[game.Conn]bool)
	}
	h.sessions[sessionID][conn] = true
	log.Printf("ws: spectator joined session %s (total: %d)", sessionID, len(h.sessions[sessionID]))
}

func (h *Hub) Detach(sessionID string, conn game.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.sessions[sessionID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.sessions, sessionID)
		}
		log.Printf("ws: spectator left session %s", sessionID)
	}
}

func (h *Hub) Broadcast(sessionID string, ev game.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.sessions[sessionID] {
		conn.Send(ev)
	}
}

func (h *Hub) Count(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// CloseSession drops every spectator of a finished session.
func (h *Hub) CloseSession(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, sessionID)
}
