package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"quizbot/internal/domain"
)

// UserStore is the file-backed implementation of app.UserStore and
// app.UserDirectory. The file maps stringified Telegram user IDs to stats.
type UserStore struct {
	mu   sync.Mutex
	path string
}

func NewUserStore(path string) *UserStore {
	return &UserStore{path: path}
}

func (s *UserStore) Get(_ context.Context, userID int64) (domain.UserStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.load()
	if err != nil {
		return domain.UserStat{}, err
	}
	return users[strconv.FormatInt(userID, 10)], nil
}

func (s *UserStore) Put(_ context.Context, userID int64, stat domain.UserStat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.load()
	if err != nil {
		return err
	}
	users[strconv.FormatInt(userID, 10)] = stat
	return s.save(users)
}

func (s *UserStore) All(_ context.Context) (map[int64]domain.UserStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make(map[int64]domain.UserStat, len(users))
	for key, stat := range users {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		out[id] = stat
	}
	return out, nil
}

func (s *UserStore) load() (map[string]domain.UserStat, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]domain.UserStat), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrStoreUnavailable, s.path, err)
	}
	users := make(map[string]domain.UserStat)
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrStoreUnavailable, s.path, err)
	}
	return users, nil
}

func (s *UserStore) save(users map[string]domain.UserStat) error {
	data, err := json.MarshalIndent(users, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: encode users: %v", domain.ErrStoreUnavailable, err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: mkdir for %s: %v", domain.ErrStoreUnavailable, s.path, err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", domain.ErrStoreUnavailable, s.path, err)
	}
	return nil
}
