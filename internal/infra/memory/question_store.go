package memory

import (
	"context"
	"sync"

	"quizbot/internal/domain"
)

// QuestionStore is an in-memory implementation of app.QuestionStore,
// useful for tests and for running the bot without durable storage.
type QuestionStore struct {
	mu        sync.RWMutex
	questions []domain.Question
}

func NewQuestionStore(seed ...domain.Question) *QuestionStore {
	return &QuestionStore{questions: append([]domain.Question(nil), seed...)}
}

func (s *QuestionStore) List(_ context.Context) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Question(nil), s.questions...), nil
}

// Questions lets the store double as an app.QuestionSource when no cache
// sits in front of it.
func (s *QuestionStore) Questions(ctx context.Context) ([]domain.Question, error) {
	return s.List(ctx)
}

func (s *QuestionStore) Get(_ context.Context, id int64) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, q := range s.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return domain.Question{}, domain.ErrQuestionNotFound
}

func (s *QuestionStore) Append(_ context.Context, q domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = append(s.questions, q)
	return nil
}

func (s *QuestionStore) Update(_ context.Context, id int64, q domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.questions {
		if s.questions[i].ID == id {
			q.ID = id
			s.questions[i] = q
			return nil
		}
	}
	return domain.ErrQuestionNotFound
}

func (s *QuestionStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.questions {
		if s.questions[i].ID == id {
			s.questions = append(s.questions[:i], s.questions[i+1:]...)
			return nil
		}
	}
	return domain.ErrQuestionNotFound
}
