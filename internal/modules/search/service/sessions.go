package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reshetovitsme/channel-scout/internal/shared/errors"
)

// Session is one user's orchestrator and its accumulated state.
type Session struct {
	*Orchestrator
	ID        string
	Owner     string
	CreatedAt time.Time
}

// Builder creates the orchestrator of a new session.
type Builder func(owner string) *Orchestrator

// Manager keeps search sessions in memory.
type Manager struct {
	build Builder

	mu       sync.RWMutex
	sessions map[string]*Session
	byOwner  map[string]string
}

func NewManager(build Builder) *Manager {
	return &Manager{
		build:    build,
		sessions: make(map[string]*Session),
		byOwner:  make(map[string]string),
	}
}

// Create starts a new session. owner may be empty for anonymous sessions.
func (m *Manager) Create(owner string) *Session {
	id := uuid.NewString()
	if owner == "" {
		owner = "session:" + id
	}
	s := &Session{
		Orchestrator: m.build(owner),
		ID:           id,
		Owner:        owner,
		CreatedAt:    time.Now(),
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.byOwner[owner] = id
	m.mu.Unlock()

	slog.Debug("search: session created", "session_id", id, "owner", owner)
	return s
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, errors.ErrSessionNotFound
	}
	return s, nil
}

// ForOwner returns the owner's latest session, creating one if needed.
func (m *Manager) ForOwner(owner string) *Session {
	m.mu.RLock()
	id, ok := m.byOwner[owner]
	s := m.sessions[id]
	m.mu.RUnlock()
	if ok && s != nil {
		return s
	}
	return m.Create(owner)
}

func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return errors.ErrSessionNotFound
	}
	delete(m.sessions, id)
	if m.byOwner[s.Owner] == id {
		delete(m.byOwner, s.Owner)
	}
	return nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Prune drops idle sessions not updated within maxIdle and returns how many were dropped.
func (m *Manager) Prune(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	m.mu.Lock()
	defer m.mu.Unlock()

	pruned := 0
	for id, s := range m.sessions {
		if s.Searching() {
			continue
		}
		last := s.Snapshot().UpdatedAt
		if last.IsZero() {
			last = s.CreatedAt
		}
		if last.After(cutoff) {
			continue
		}
		delete(m.sessions, id)
		if m.byOwner[s.Owner] == id {
			delete(m.byOwner, s.Owner)
		}
		pruned++
	}
	return pruned
}

// RunPruner prunes idle sessions every interval until ctx is done.
func (m *Manager) RunPruner(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Prune(maxIdle); n > 0 {
				slog.Info("search: pruned idle sessions", "count", n, "remaining", m.Len())
			}
		}
	}
}
