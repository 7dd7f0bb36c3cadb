package redis

import (
	"context"
	"strconv"
	"sync"
	"time"

	"quizbot/internal/domain"
	"github.com/redis/go-redis/v9"
)

// SessionRegistry is a Redis-aware implementation of app.SessionRegistry.
// Notes:
//   - Sessions themselves stay in a local in-memory map; they are ephemeral
//     by design and die with the process.
//   - Redis only marks session liveness, which gives operators visibility
//     into pending quizzes across restarts and could be extended for
//     cross-instance routing.
type SessionRegistry struct {
	client *redis.Client
	ttl    time.Duration

	mu       sync.RWMutex
	sessions map[int64]*domain.QuizSession
}

func NewSessionRegistry(client *redis.Client, ttl time.Duration) *SessionRegistry {
	return &SessionRegistry{
		client:   client,
		ttl:      ttl,
		sessions: make(map[int64]*domain.QuizSession),
	}
}

func (r *SessionRegistry) Put(session *domain.QuizSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.UserID] = session
	// best-effort liveness marker
	_ = r.client.Set(context.Background(), r.key(session.UserID), "1", r.ttl).Err()
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
	_ = r.client.Del(context.Background(), r.key(userID)).Err()
}

// Len reports how many sessions are pending locally.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *SessionRegistry) key(userID int64) string {
	return "quizbot:session:" + strconv.FormatInt(userID, 10)
}
