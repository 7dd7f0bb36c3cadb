package app_test

import (
	"context"
	"testing"

	"quizbot/internal/app"
	"quizbot/internal/domain"
	"quizbot/internal/infra/memory"
)

func TestSummaryCounts(t *testing.T) {
	ctx := context.Background()
	questions := memory.NewQuestionStore(
		domain.Question{ID: 1, Prompt: "a?", Options: []string{"x", "y"}, Answer: 0, Category: "Geography"},
		domain.Question{ID: 2, Prompt: "b?", Options: []string{"x", "y"}, Answer: 1, Category: "Geography"},
		domain.Question{ID: 3, Prompt: "c?", Options: []string{"x", "y"}, Answer: 0, Category: "Science"},
		domain.Question{ID: 4, Prompt: "d?", Options: []string{"x", "y"}, Answer: 0},
	)
	users := memory.NewUserStore()
	_ = users.Put(ctx, 10, domain.UserStat{Answered: 3, Correct: 2})
	_ = users.Put(ctx, 11, domain.UserStat{Answered: 1, Correct: 0})

	summary, err := app.NewAggregator(questions, users).Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalQuestions != 4 {
		t.Fatalf("expected 4 questions, got %d", summary.TotalQuestions)
	}
	if summary.TotalUsers != 2 {
		t.Fatalf("expected 2 users, got %d", summary.TotalUsers)
	}
	if summary.Categories["Geography"] != 2 || summary.Categories["Science"] != 1 {
		t.Fatalf("unexpected category counts: %v", summary.Categories)
	}
	if summary.Categories["Uncategorized"] != 1 {
		t.Fatalf("expected uncategorized bucket, got %v", summary.Categories)
	}
}

func TestSummaryEmptyStores(t *testing.T) {
	ctx := context.Background()
	aggregator := app.NewAggregator(memory.NewQuestionStore(), memory.NewUserStore())

	summary, err := aggregator.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalQuestions != 0 || summary.TotalUsers != 0 || len(summary.Categories) != 0 {
		t.Fatalf("expected zero summary, got %+v", summary)
	}
}
