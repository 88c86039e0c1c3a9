package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/codebuildervaibhav/audio-intelligence/internal/selection"
)

// ErrSessionNotFound is returned for an id that is neither live nor stored
var ErrSessionNotFound = errors.New("session not found")

// Store persists the selection state of sessions so that a reload or a
// restart restores the checkboxes. Jobs are never stored.
type Store interface {
	SaveState(ctx context.Context, id string, state *selection.State) error
	LoadState(ctx context.Context, id string) (*selection.State, bool, error)
	DeleteState(ctx context.Context, id string) error
}

// Manager owns the live sessions
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	store    Store
	logger   logrus.FieldLogger
}

// NewManager creates a manager. store may be nil for memory-only sessions.
func NewManager(store Store, logger logrus.FieldLogger) *Manager {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		store:    store,
		logger:   logger,
	}
}

// Create starts a new session with an empty selection
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	s := New(uuid.NewString(), nil)
	if err := m.Save(ctx, s); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.WithField("session_id", s.ID).Info("Session created")
	return s, nil
}

// Get returns a live session, restoring it from the store when needed
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		return s, nil
	}
	if m.store == nil {
		return nil, ErrSessionNotFound
	}

	state, found, err := m.store.LoadState(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	if !found {
		return nil, ErrSessionNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	s = New(id, state)
	m.sessions[id] = s
	m.logger.WithField("session_id", id).Info("Session restored")
	return s, nil
}

// Save persists the session's selection state
func (m *Manager) Save(ctx context.Context, s *Session) error {
	if m.store == nil {
		return nil
	}
	if err := m.store.SaveState(ctx, s.ID, s.State()); err != nil {
		return fmt.Errorf("save session %s: %w", s.ID, err)
	}
	return nil
}

// Delete forgets a session entirely
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()

	if m.store == nil {
		return nil
	}
	return m.store.DeleteState(ctx, id)
}

// Sweep unloads sessions idle for longer than maxIdle. Their stored selection
// survives; jobs and dashboards are dropped. Sessions with a running job or
// an open event stream are kept.
func (m *Manager) Sweep(maxIdle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	removed := 0
	for id, s := range m.sessions {
		if s.Busy() || s.Events.Listeners() > 0 || s.LastActive().After(cutoff) {
			continue
		}
		delete(m.sessions, id)
		removed++
	}
	if removed > 0 {
		m.logger.WithField("count", removed).Info("Idle sessions unloaded")
	}
	return removed
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
