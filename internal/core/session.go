package core

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

var (
	// ErrSessionNotFound is returned for unknown or expired session ids.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNoWorkspace is returned when a session has not loaded any data yet.
	ErrNoWorkspace = errors.New("no workspace loaded")
)

// Session is one user's isolated state: the last successful workspace and
// the basket. The basket outlives workspace replacements.
type Session struct {
	ID     string
	Basket *Basket

	mu        sync.RWMutex
	workspace *Workspace
}

// Workspace returns the current workspace or ErrNoWorkspace.
func (s *Session) Workspace() (*Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.workspace == nil {
		return nil, ErrNoWorkspace
	}
	return s.workspace, nil
}

// SetWorkspace replaces the current workspace.
func (s *Session) SetWorkspace(ws *Workspace) {
	s.mu.Lock()
	s.workspace = ws
	s.mu.Unlock()
}

// SessionStore keeps sessions in memory with sliding expiration.
type SessionStore struct {
	cache *cache.Cache
}

// NewSessionStore expires sessions idle for ttl and purges expired entries
// every cleanupInterval.
func NewSessionStore(ttl, cleanupInterval time.Duration) *SessionStore {
	return &SessionStore{
		cache: cache.New(ttl, cleanupInterval),
	}
}

// Create starts a new empty session.
func (st *SessionStore) Create() *Session {
	s := &Session{
		ID:     uuid.NewString(),
		Basket: NewBasket(),
	}
	st.cache.Set(s.ID, s, cache.DefaultExpiration)
	return s
}

// Get returns the session and extends its lifetime.
func (st *SessionStore) Get(id string) (*Session, error) {
	if id == "" {
		return nil, ErrSessionNotFound
	}
	x, found := st.cache.Get(id)
	if !found {
		return nil, ErrSessionNotFound
	}
	s := x.(*Session)
	st.cache.Set(id, s, cache.DefaultExpiration)
	return s, nil
}

// GetOrCreate returns the session for id, starting a new one when id is
// unknown. created reports whether a new session was made.
func (st *SessionStore) GetOrCreate(id string) (s *Session, created bool) {
	if s, err := st.Get(id); err == nil {
		return s, false
	}
	return st.Create(), true
}

// Delete ends a session.
func (st *SessionStore) Delete(id string) {
	st.cache.Delete(id)
}

// Count returns the number of live sessions, expired ones included until
// the next cleanup.
func (st *SessionStore) Count() int {
	return st.cache.ItemCount()
}
