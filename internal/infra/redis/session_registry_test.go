package redis

import (
	"testing"
	"time"

	"quizbot/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
)

func TestSessionRegistrySetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	registry := NewSessionRegistry(newClient(mr), time.Minute)

	registry.Put(&domain.QuizSession{UserID: 7, Question: domain.Question{ID: 1}})
	if !mr.Exists("quizbot:session:7") {
		t.Fatalf("expected redis liveness key to be set")
	}
	if _, ok := registry.Get(7); !ok {
		t.Fatalf("expected local session present")
	}

	registry.Delete(7)
	if mr.Exists("quizbot:session:7") {
		t.Fatalf("expected redis key to be removed")
	}
	if _, ok := registry.Get(7); ok {
		t.Fatalf("expected local session removed")
	}
}
