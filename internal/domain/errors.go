package domain

import "errors"

var (
	// ErrNoQuestionsAvailable is returned when the pool has nothing to serve.
	ErrNoQuestionsAvailable = errors.New("no questions available")
	// ErrNoActiveSession is returned when a user submits without a pending quiz.
	ErrNoActiveSession = errors.New("no active quiz session")
	// ErrInvalidQuestion indicates a draft failed validation.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrQuestionNotFound indicates the requested question ID is absent.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrStoreUnavailable wraps storage-layer failures; always recoverable.
	ErrStoreUnavailable = errors.New("store unavailable")
)
