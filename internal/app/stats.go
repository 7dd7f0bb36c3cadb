package app

import (
	"context"

	"quizbot/internal/domain"
)

// UserDirectory exposes every stored user stat for aggregation.
type UserDirectory interface {
	All(ctx context.Context) (map[int64]domain.UserStat, error)
}

// Aggregator computes the process-wide summary for the status page. It is
// read-only and recomputes from the stores on every call; no caching.
type Aggregator struct {
	questions QuestionStore
	users     UserDirectory
}

func NewAggregator(questions QuestionStore, users UserDirectory) *Aggregator {
	return &Aggregator{questions: questions, users: users}
}

// Summary scans both stores and returns total questions, total distinct
// users, and per-category question counts.
func (a *Aggregator) Summary(ctx context.Context) (domain.Summary, error) {
	questions, err := a.questions.List(ctx)
	if err != nil {
		return domain.Summary{}, err
	}
	users, err := a.users.All(ctx)
	if err != nil {
		return domain.Summary{}, err
	}

	summary := domain.Summary{
		TotalQuestions: len(questions),
		TotalUsers:     len(users),
		Categories:     make(map[string]int),
	}
	for _, q := range questions {
		category := q.Category
		if category == "" {
			category = "Uncategorized"
		}
		summary.Categories[category]++
	}
	return summary, nil
}
