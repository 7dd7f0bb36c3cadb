package app

import (
	"context"
	"strings"
	"time"

	"quizbot/internal/domain"
)

// QuestionStore is the durable question collection.
type QuestionStore interface {
	List(ctx context.Context) ([]domain.Question, error)
	Get(ctx context.Context, id int64) (domain.Question, error)
	Append(ctx context.Context, q domain.Question) error
	Update(ctx context.Context, id int64, q domain.Question) error
	Delete(ctx context.Context, id int64) error
}

// Authoring mutates the question set: add, edit, remove, clone.
type Authoring struct {
	questions QuestionStore
	now       func() time.Time
}

func NewAuthoring(questions QuestionStore) *Authoring {
	return &Authoring{questions: questions, now: time.Now}
}

// ValidateDraft checks a draft against the authoring rules: non-empty
// prompt, at least two options, answer index in range.
func ValidateDraft(draft domain.Draft) error {
	if strings.TrimSpace(draft.Prompt) == "" {
		return domain.ErrInvalidQuestion
	}
	if len(draft.Options) < 2 {
		return domain.ErrInvalidQuestion
	}
	if draft.Answer < 0 || draft.Answer >= len(draft.Options) {
		return domain.ErrInvalidQuestion
	}
	return nil
}

// AddQuestion validates the draft, assigns a fresh ID, and appends it.
func (a *Authoring) AddQuestion(ctx context.Context, draft domain.Draft) (domain.Question, error) {
	if err := ValidateDraft(draft); err != nil {
		return domain.Question{}, err
	}

	existing, err := a.questions.List(ctx)
	if err != nil {
		return domain.Question{}, err
	}
	var maxID int64
	for _, q := range existing {
		if q.ID > maxID {
			maxID = q.ID
		}
	}

	question := domain.Question{
		ID:          maxID + 1,
		Prompt:      draft.Prompt,
		Options:     append([]string(nil), draft.Options...),
		Answer:      draft.Answer,
		Category:    draft.Category,
		Explanation: draft.Explanation,
		CreatedBy:   draft.CreatedBy,
		CreatedAt:   a.now(),
	}
	if question.Category == "" {
		question.Category = "General"
	}
	if err := a.questions.Append(ctx, question); err != nil {
		return domain.Question{}, err
	}
	return question, nil
}

// EditQuestion applies a validated patch to an existing question, keeping its ID.
func (a *Authoring) EditQuestion(ctx context.Context, id int64, patch domain.Draft) (domain.Question, error) {
	if err := ValidateDraft(patch); err != nil {
		return domain.Question{}, err
	}
	current, err := a.questions.Get(ctx, id)
	if err != nil {
		return domain.Question{}, err
	}

	current.Prompt = patch.Prompt
	current.Options = append([]string(nil), patch.Options...)
	current.Answer = patch.Answer
	if patch.Category != "" {
		current.Category = patch.Category
	}
	if patch.Explanation != "" {
		current.Explanation = patch.Explanation
	}
	if err := a.questions.Update(ctx, id, current); err != nil {
		return domain.Question{}, err
	}
	return current, nil
}

// RemoveQuestion deletes a question. Sessions already holding a copy of it
// stay answerable.
func (a *Authoring) RemoveQuestion(ctx context.Context, id int64) error {
	return a.questions.Delete(ctx, id)
}

// GetQuestion fetches a single question by ID.
func (a *Authoring) GetQuestion(ctx context.Context, id int64) (domain.Question, error) {
	return a.questions.Get(ctx, id)
}

// ListQuestions returns the whole stored set.
func (a *Authoring) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	return a.questions.List(ctx)
}

// CloneQuestion turns an externally fetched poll description into a draft and
// runs it through the usual add path.
func (a *Authoring) CloneQuestion(ctx context.Context, source domain.Draft) (domain.Question, error) {
	if source.Category == "" {
		source.Category = "Cloned"
	}
	return a.AddQuestion(ctx, source)
}
