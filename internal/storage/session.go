package storage

import (
	"context"
	"sync"
	"time"

	"github.com/berean-study/trivia-api/internal/domain/entities"
)

// SessionStorage provides in-memory storage for live quiz sessions by ID.
// Sessions are ephemeral per page visit; abandoned ones are swept out after
// a TTL so two forgotten tabs do not accumulate forever.
type SessionStorage struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
	ttl      time.Duration
}

type sessionEntry struct {
	session  *entities.QuizSession
	lastSeen time.Time
}

// NewSessionStorage creates a session store with the given idle TTL.
func NewSessionStorage(ttl time.Duration) *SessionStorage {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionStorage{
		sessions: make(map[string]*sessionEntry),
		ttl:      ttl,
	}
}

// Store saves a session under its ID.
func (s *SessionStorage) Store(sess *entities.QuizSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = &sessionEntry{session: sess, lastSeen: time.Now()}
}

// Get retrieves a session by ID and refreshes its idle timer.
func (s *SessionStorage) Get(id string) (*entities.QuizSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	entry.lastSeen = time.Now()
	return entry.session, true
}

// Delete removes a session by ID.
func (s *SessionStorage) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of live sessions.
func (s *SessionStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed.
func (s *SessionStorage) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, entry := range s.sessions {
		if now.Sub(entry.lastSeen) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps periodically until the context is cancelled.
func (s *SessionStorage) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Sweep(now)
		}
	}
}
