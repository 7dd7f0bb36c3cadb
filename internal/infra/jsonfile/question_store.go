// Package jsonfile persists questions and user stats as flat JSON files.
// Every operation reads and rewrites the whole file; last write wins. A
// mutex per store serializes access within the process.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"quizbot/internal/domain"
)

// QuestionStore is the file-backed implementation of app.QuestionStore.
type QuestionStore struct {
	mu   sync.Mutex
	path string
}

func NewQuestionStore(path string) *QuestionStore {
	return &QuestionStore{path: path}
}

func (s *QuestionStore) List(_ context.Context) ([]domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *QuestionStore) Get(_ context.Context, id int64) (domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	questions, err := s.load()
	if err != nil {
		return domain.Question{}, err
	}
	for _, q := range questions {
		if q.ID == id {
			return q, nil
		}
	}
	return domain.Question{}, domain.ErrQuestionNotFound
}

func (s *QuestionStore) Append(_ context.Context, q domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	questions, err := s.load()
	if err != nil {
		return err
	}
	return s.save(append(questions, q))
}

func (s *QuestionStore) Update(_ context.Context, id int64, q domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	questions, err := s.load()
	if err != nil {
		return err
	}
	for i := range questions {
		if questions[i].ID == id {
			q.ID = id
			questions[i] = q
			return s.save(questions)
		}
	}
	return domain.ErrQuestionNotFound
}

func (s *QuestionStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	questions, err := s.load()
	if err != nil {
		return err
	}
	for i := range questions {
		if questions[i].ID == id {
			return s.save(append(questions[:i], questions[i+1:]...))
		}
	}
	return domain.ErrQuestionNotFound
}

// load seeds the file with two sample questions when it does not exist yet,
// so a fresh deployment has something to serve.
func (s *QuestionStore) load() ([]domain.Question, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		seeded := sampleQuestions()
		if err := s.save(seeded); err != nil {
			return nil, err
		}
		return seeded, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrStoreUnavailable, s.path, err)
	}
	var questions []domain.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrStoreUnavailable, s.path, err)
	}
	// The file is hand-editable, so enforce the answer-index invariant on
	// the way in rather than trusting it downstream.
	for _, q := range questions {
		if len(q.Options) < 2 || q.Answer < 0 || q.Answer >= len(q.Options) {
			return nil, fmt.Errorf("%w: %s: question %d has answer index %d for %d options",
				domain.ErrStoreUnavailable, s.path, q.ID, q.Answer, len(q.Options))
		}
	}
	return questions, nil
}

func (s *QuestionStore) save(questions []domain.Question) error {
	data, err := json.MarshalIndent(questions, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: encode questions: %v", domain.ErrStoreUnavailable, err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: mkdir for %s: %v", domain.ErrStoreUnavailable, s.path, err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", domain.ErrStoreUnavailable, s.path, err)
	}
	return nil
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:       1,
			Prompt:   "What is the capital of France?",
			Options:  []string{"Berlin", "Madrid", "Paris", "Rome"},
			Answer:   2,
			Category: "Geography",
		},
		{
			ID:       2,
			Prompt:   "Which planet is known as the Red Planet?",
			Options:  []string{"Venus", "Mars", "Jupiter", "Saturn"},
			Answer:   1,
			Category: "Science",
		},
	}
}
