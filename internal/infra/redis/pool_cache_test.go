package redis

import (
	"context"
	"testing"
	"time"

	"quizbot/internal/domain"
	"quizbot/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestPoolCacheCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	loader := &countingLoader{store: memory.NewQuestionStore(samplePool()...)}
	cache := NewPoolCache(client, loader, time.Minute)

	pool, err := cache.Questions(context.Background())
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(pool) != 1 || pool[0].Answer != 1 {
		t.Fatalf("unexpected pool: %+v", pool)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("quizbot:questions") {
		t.Fatalf("expected pool cached in redis")
	}

	// Second call should hit the redis cache, loader not incremented.
	if _, err := cache.Questions(context.Background()); err != nil {
		t.Fatalf("questions 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
}

func TestPoolCacheFallsBackAfterExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	loader := &countingLoader{store: memory.NewQuestionStore(samplePool()...)}
	cache := NewPoolCache(client, loader, time.Minute)

	if _, err := cache.Questions(context.Background()); err != nil {
		t.Fatalf("questions: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, err := cache.Questions(context.Background()); err != nil {
		t.Fatalf("questions after expiry: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after expiry, loader calls=%d", loader.calls)
	}
}

func TestPoolCacheDisabledWithZeroTTL(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	loader := &countingLoader{store: memory.NewQuestionStore(samplePool()...)}
	cache := NewPoolCache(client, loader, 0)

	if _, err := cache.Questions(context.Background()); err != nil {
		t.Fatalf("questions: %v", err)
	}
	if _, err := cache.Questions(context.Background()); err != nil {
		t.Fatalf("questions 2: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected loader on every call with caching off, got %d", loader.calls)
	}
	// No key must be written, or it would never expire.
	if mr.Exists("quizbot:questions") {
		t.Fatalf("expected no cache key with ttl 0")
	}
}

type countingLoader struct {
	store *memory.QuestionStore
	calls int
}

func (l *countingLoader) List(ctx context.Context) ([]domain.Question, error) {
	l.calls++
	return l.store.List(ctx)
}

func samplePool() []domain.Question {
	return []domain.Question{
		{
			ID:       1,
			Prompt:   "What is 2 + 2?",
			Options:  []string{"3", "4"},
			Answer:   1,
			Category: "Math",
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
