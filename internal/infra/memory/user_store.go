package memory

import (
	"context"
	"sync"

	"quizbot/internal/domain"
)

// UserStore is an in-memory implementation of app.UserStore and
// app.UserDirectory. Absent users read as the zero stat.
type UserStore struct {
	mu    sync.RWMutex
	stats map[int64]domain.UserStat
}

func NewUserStore() *UserStore {
	return &UserStore{stats: make(map[int64]domain.UserStat)}
}

func (s *UserStore) Get(_ context.Context, userID int64) (domain.UserStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneStat(s.stats[userID]), nil
}

func (s *UserStore) Put(_ context.Context, userID int64, stat domain.UserStat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[userID] = cloneStat(stat)
	return nil
}

func (s *UserStore) All(_ context.Context) (map[int64]domain.UserStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int64]domain.UserStat, len(s.stats))
	for id, stat := range s.stats {
		out[id] = cloneStat(stat)
	}
	return out, nil
}

func cloneStat(stat domain.UserStat) domain.UserStat {
	if stat.Categories == nil {
		return stat
	}
	categories := make(map[string]domain.CategoryStat, len(stat.Categories))
	for k, v := range stat.Categories {
		categories[k] = v
	}
	stat.Categories = categories
	return stat
}
