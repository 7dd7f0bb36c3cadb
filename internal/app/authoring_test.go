package app_test

import (
	"context"
	"errors"
	"testing"

	"quizbot/internal/app"
	"quizbot/internal/domain"
	"quizbot/internal/infra/memory"
)

func TestAddQuestionRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.NewQuestionStore()
	authoring := app.NewAuthoring(store)

	draft := domain.Draft{
		Prompt:   "What is the capital of France?",
		Options:  []string{"Berlin", "Paris", "Rome"},
		Answer:   1,
		Category: "Geography",
	}
	created, err := authoring.AddQuestion(ctx, draft)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected assigned id")
	}

	got, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Prompt != draft.Prompt || got.Answer != draft.Answer || len(got.Options) != 3 {
		t.Fatalf("stored question differs from draft: %+v", got)
	}
	if got.Category != "Geography" {
		t.Fatalf("expected category kept, got %q", got.Category)
	}
}

func TestAddQuestionAssignsIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	store := memory.NewQuestionStore(domain.Question{ID: 7, Prompt: "x?", Options: []string{"a", "b"}, Answer: 0})
	authoring := app.NewAuthoring(store)

	created, err := authoring.AddQuestion(ctx, domain.Draft{Prompt: "y?", Options: []string{"a", "b"}, Answer: 1})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if created.ID != 8 {
		t.Fatalf("expected id 8, got %d", created.ID)
	}
}

func TestAddQuestionValidation(t *testing.T) {
	ctx := context.Background()
	authoring := app.NewAuthoring(memory.NewQuestionStore())

	cases := []struct {
		name  string
		draft domain.Draft
	}{
		{"empty prompt", domain.Draft{Prompt: "  ", Options: []string{"a", "b"}, Answer: 0}},
		{"single option", domain.Draft{Prompt: "q?", Options: []string{"a"}, Answer: 0}},
		{"answer out of range", domain.Draft{Prompt: "q?", Options: []string{"a", "b"}, Answer: 2}},
		{"negative answer", domain.Draft{Prompt: "q?", Options: []string{"a", "b"}, Answer: -1}},
	}
	for _, tc := range cases {
		if _, err := authoring.AddQuestion(ctx, tc.draft); !errors.Is(err, domain.ErrInvalidQuestion) {
			t.Fatalf("%s: expected ErrInvalidQuestion, got %v", tc.name, err)
		}
	}
}

func TestEditQuestion(t *testing.T) {
	ctx := context.Background()
	store := memory.NewQuestionStore(domain.Question{
		ID: 3, Prompt: "old?", Options: []string{"a", "b"}, Answer: 0, Category: "Science",
	})
	authoring := app.NewAuthoring(store)

	edited, err := authoring.EditQuestion(ctx, 3, domain.Draft{Prompt: "new?", Options: []string{"x", "y", "z"}, Answer: 2})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.ID != 3 {
		t.Fatalf("expected id preserved, got %d", edited.ID)
	}
	if edited.Prompt != "new?" || edited.Answer != 2 {
		t.Fatalf("patch not applied: %+v", edited)
	}
	if edited.Category != "Science" {
		t.Fatalf("expected category preserved, got %q", edited.Category)
	}

	if _, err := authoring.EditQuestion(ctx, 99, domain.Draft{Prompt: "q?", Options: []string{"a", "b"}, Answer: 0}); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestRemoveQuestion(t *testing.T) {
	ctx := context.Background()
	store := memory.NewQuestionStore(domain.Question{ID: 1, Prompt: "q?", Options: []string{"a", "b"}, Answer: 0})
	authoring := app.NewAuthoring(store)

	if err := authoring.RemoveQuestion(ctx, 1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := authoring.RemoveQuestion(ctx, 1); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}

	remaining, _ := store.List(ctx)
	if len(remaining) != 0 {
		t.Fatalf("expected empty store, got %d", len(remaining))
	}
}

func TestRemoveMissingLeavesStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	store := memory.NewQuestionStore(domain.Question{ID: 1, Prompt: "q?", Options: []string{"a", "b"}, Answer: 0})
	authoring := app.NewAuthoring(store)

	if err := authoring.RemoveQuestion(ctx, 42); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
	remaining, _ := store.List(ctx)
	if len(remaining) != 1 {
		t.Fatalf("expected store unchanged, got %d questions", len(remaining))
	}
}

func TestCloneQuestion(t *testing.T) {
	ctx := context.Background()
	store := memory.NewQuestionStore()
	authoring := app.NewAuthoring(store)

	created, err := authoring.CloneQuestion(ctx, domain.Draft{
		Prompt:  "Fetched from a poll",
		Options: []string{"yes", "no"},
		Answer:  0,
	})
	if err != nil {
		t.Fatalf("clone: %v", err)
	}
	if created.Category != "Cloned" {
		t.Fatalf("expected cloned category default, got %q", created.Category)
	}

	// Clones run through the same validation as adds.
	if _, err := authoring.CloneQuestion(ctx, domain.Draft{Prompt: "bad", Options: []string{"one"}}); !errors.Is(err, domain.ErrInvalidQuestion) {
		t.Fatalf("expected ErrInvalidQuestion, got %v", err)
	}
}
