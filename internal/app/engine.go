package app

import (
	"context"
	"math/rand"
	"time"

	"quizbot/internal/domain"
)

// SessionRegistry abstracts where pending quiz sessions live (in-memory, Redis-marked).
// It is a keyed single-slot map: Put overwrites any existing session for the
// same user. Latest request wins; there is no queue.
type SessionRegistry interface {
	Put(session *domain.QuizSession)
	Get(userID int64) (*domain.QuizSession, bool)
	Delete(userID int64)
}

// QuestionSource yields the current question pool (usually through a cache).
type QuestionSource interface {
	Questions(ctx context.Context) ([]domain.Question, error)
}

// UserStore holds durable per-user statistics.
type UserStore interface {
	Get(ctx context.Context, userID int64) (domain.UserStat, error)
	Put(ctx context.Context, userID int64, stat domain.UserStat) error
}

// Engine orchestrates one question-answer cycle per user and keeps
// statistics consistent.
type Engine struct {
	sessions SessionRegistry
	pool     QuestionSource
	users    UserStore
	ttl      time.Duration
	now      func() time.Time
	pick     func(n int) int
}

// NewEngine builds an Engine. ttl of zero disables session expiry.
func NewEngine(sessions SessionRegistry, pool QuestionSource, users UserStore, ttl time.Duration) *Engine {
	return &Engine{
		sessions: sessions,
		pool:     pool,
		users:    users,
		ttl:      ttl,
		now:      time.Now,
		pick:     rand.Intn,
	}
}

// NewEngineWithClock is test-only for deterministic timestamps and selection.
func NewEngineWithClock(sessions SessionRegistry, pool QuestionSource, users UserStore, ttl time.Duration, now func() time.Time, pick func(int) int) *Engine {
	e := NewEngine(sessions, pool, users, ttl)
	if now != nil {
		e.now = now
	}
	if pick != nil {
		e.pick = pick
	}
	return e
}

// StartSession selects a random question (optionally filtered by category),
// records a pending session for the user, and returns the rendered prompt.
// A prior pending session for the same user is silently discarded.
func (e *Engine) StartSession(ctx context.Context, userID int64, category string) (domain.Prompt, error) {
	questions, err := e.pool.Questions(ctx)
	if err != nil {
		return domain.Prompt{}, err
	}
	if category != "" {
		filtered := questions[:0:0]
		for _, q := range questions {
			if q.Category == category {
				filtered = append(filtered, q)
			}
		}
		questions = filtered
	}
	if len(questions) == 0 {
		return domain.Prompt{}, domain.ErrNoQuestionsAvailable
	}

	question := questions[e.pick(len(questions))]
	return e.pose(userID, question), nil
}

// StartSessionWithQuestion poses one specific question instead of a random
// pick, for callers that let the user choose by ID. Overwrite semantics are
// the same as StartSession.
func (e *Engine) StartSessionWithQuestion(userID int64, question domain.Question) domain.Prompt {
	return e.pose(userID, question)
}

func (e *Engine) pose(userID int64, question domain.Question) domain.Prompt {
	e.sessions.Put(&domain.QuizSession{
		UserID:   userID,
		Question: question,
		AskedAt:  e.now(),
		Status:   domain.SessionPending,
	})
	return domain.Prompt{
		QuestionID: question.ID,
		Text:       question.Prompt,
		Options:    append([]string(nil), question.Options...),
		Category:   question.Category,
	}
}

// SubmitAnswer scores the user's choice against their pending session,
// updates the user's durable statistics, and consumes the session. The
// session is removed only after the store write succeeds, so a failed write
// can be retried without losing the question. A consumed session cannot be
// resubmitted; that fails with ErrNoActiveSession rather than double-counting.
func (e *Engine) SubmitAnswer(ctx context.Context, userID int64, name string, choice int) (domain.Verdict, error) {
	session, ok := e.sessions.Get(userID)
	if !ok || session.Status != domain.SessionPending {
		return domain.Verdict{}, domain.ErrNoActiveSession
	}
	if e.ttl > 0 && e.now().Sub(session.AskedAt) > e.ttl {
		session.Status = domain.SessionExpired
		e.sessions.Delete(userID)
		return domain.Verdict{}, domain.ErrNoActiveSession
	}

	question := session.Question
	// Out-of-range submissions score as wrong but still consume the session.
	// A stored question whose own answer index is out of bounds never scores
	// correct and reports an empty correct text instead of panicking.
	answerInRange := question.Answer >= 0 && question.Answer < len(question.Options)
	correct := answerInRange && choice == question.Answer

	stat, err := e.users.Get(ctx, userID)
	if err != nil {
		return domain.Verdict{}, err
	}
	if name != "" {
		stat.Name = name
	}
	stat.Answered++
	if correct {
		stat.Correct++
	}
	if question.Category != "" {
		if stat.Categories == nil {
			stat.Categories = make(map[string]domain.CategoryStat)
		}
		cs := stat.Categories[question.Category]
		cs.Answered++
		if correct {
			cs.Correct++
		}
		stat.Categories[question.Category] = cs
	}
	if err := e.users.Put(ctx, userID, stat); err != nil {
		return domain.Verdict{}, err
	}

	session.Status = domain.SessionAnswered
	e.sessions.Delete(userID)

	var correctText string
	if answerInRange {
		correctText = question.Options[question.Answer]
	}
	return domain.Verdict{
		Correct:     correct,
		CorrectText: correctText,
		Explanation: question.Explanation,
		Stats:       stat,
	}, nil
}

// UserStats returns the durable scoreboard for one user.
func (e *Engine) UserStats(ctx context.Context, userID int64) (domain.UserStat, error) {
	return e.users.Get(ctx, userID)
}
