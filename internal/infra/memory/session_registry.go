package memory

import (
	"sync"

	"quizbot/internal/domain"
)

// SessionRegistry is the in-memory implementation of app.SessionRegistry.
// One slot per user; Put overwrites.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[int64]*domain.QuizSession
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[int64]*domain.QuizSession),
	}
}

func (r *SessionRegistry) Put(session *domain.QuizSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.UserID] = session
}

func (r *SessionRegistry) Get(userID int64) (*domain.QuizSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[userID]
	return session, ok
}

func (r *SessionRegistry) Delete(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
}

// Len reports how many sessions are pending; used by the status page.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
