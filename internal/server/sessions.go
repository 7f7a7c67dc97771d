package server

import (
	"sync"

	"github.com/google/uuid"

	"github.com/colonyforge/server/internal/game"
)

// SessionStore holds all live connections. Unlike the world graph it is
// read during concurrent fan-out, so access is guarded.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Connection
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[uuid.UUID]*Connection)}
}

func (ss *SessionStore) Add(c *Connection) {
	ss.mu.Lock()
	ss.sessions[c.ID] = c
	ss.mu.Unlock()
}

func (ss *SessionStore) Remove(id uuid.UUID) {
	ss.mu.Lock()
	delete(ss.sessions, id)
	ss.mu.Unlock()
}

func (ss *SessionStore) Get(id uuid.UUID) *Connection {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.sessions[id]
}

// ByPlayer returns the connection p is logged in on, or nil.
func (ss *SessionStore) ByPlayer(p *game.Player) *Connection {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	for _, c := range ss.sessions {
		if c.player == p {
			return c
		}
	}
	return nil
}

// Snapshot returns the current connections. The copy lets callers fan out
// without holding the lock while sending.
func (ss *SessionStore) Snapshot() []*Connection {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	out := make([]*Connection, 0, len(ss.sessions))
	for _, c := range ss.sessions {
		out = append(out, c)
	}
	return out
}
