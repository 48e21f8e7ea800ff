package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound marks a chat request naming an unknown session id.
// It is a client error, surfaced as HTTP 404.
var ErrSessionNotFound = errors.New("session not found")

// Session binds an uploaded report's context store to its opaque id.
type Session struct {
	ID        string
	Store     ContextStore
	CreatedAt time.Time
}

// SessionService is the process-lifetime session registry. Inserts and
// lookups are safe under concurrent request handlers. Entries are never
// updated after insertion; they are only removed by the optional TTL
// sweeper, so with the sweeper disabled the registry grows unbounded (the
// reference behavior).
type SessionService struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionService() *SessionService {
	return &SessionService{sessions: make(map[string]*Session)}
}

// NewID returns a fresh opaque session identifier.
func (s *SessionService) NewID() string {
	return uuid.New().String()
}

// Put registers a store under an id issued by NewID.
func (s *SessionService) Put(id string, store ContextStore) *Session {
	session := &Session{ID: id, Store: store, CreatedAt: time.Now()}
	s.mu.Lock()
	s.sessions[id] = session
	s.mu.Unlock()
	return session
}

// Get looks up a session by id.
func (s *SessionService) Get(id string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Count reports the number of live sessions.
func (s *SessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// StartSweeper evicts sessions older than ttl every interval until the
// context is cancelled. A non-positive ttl disables eviction and keeps
// every session for the process lifetime.
func (s *SessionService) StartSweeper(ctx context.Context, ttl, interval time.Duration) {
	if ttl <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweep(ctx, ttl)
			case <-ctx.Done():
				log.Println("SESSIONS: Context cancelled, stopping sweeper.")
				return
			}
		}
	}()
}

func (s *SessionService) sweep(ctx context.Context, ttl time.Duration) {
	cutoff := time.Now().Add(-ttl)

	s.mu.Lock()
	var expired []*Session
	for id, session := range s.sessions {
		if session.CreatedAt.Before(cutoff) {
			expired = append(expired, session)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	// Close stores outside the lock; dropping a Chroma collection is a
	// network call.
	for _, session := range expired {
		if err := session.Store.Close(ctx); err != nil {
			log.Printf("SESSIONS: Failed to close store for expired session %s: %v", session.ID, err)
		}
	}
	if len(expired) > 0 {
		log.Printf("SESSIONS: Evicted %d expired sessions.", len(expired))
	}
}
