package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quizbot/internal/app"
	"quizbot/internal/domain"
	"quizbot/internal/infra/memory"
	"github.com/gorilla/websocket"
)

func TestStatsEndpoint(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/stats")
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var summary domain.Summary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if summary.TotalQuestions != 2 {
		t.Fatalf("expected 2 questions, got %d", summary.TotalQuestions)
	}
	if summary.TotalUsers != 1 {
		t.Fatalf("expected 1 user, got %d", summary.TotalUsers)
	}
	if summary.Categories["Geography"] != 2 {
		t.Fatalf("unexpected categories: %v", summary.Categories)
	}
}

func TestIndexPage(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	resp, err := http.Get(server.URL + "/")
	if err != nil {
		t.Fatalf("get index: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	buf := make([]byte, 4096)
	n, _ := resp.Body.Read(buf)
	body := string(buf[:n])
	if !strings.Contains(body, "Telegram Quiz Bot") {
		t.Fatalf("expected status page, got: %s", body)
	}
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("get healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestWebSocketStatsStream(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var summary domain.Summary
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&summary); err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if summary.TotalQuestions != 2 {
		t.Fatalf("expected live summary, got %+v", summary)
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	questions := memory.NewQuestionStore(
		domain.Question{ID: 1, Prompt: "a?", Options: []string{"x", "y"}, Answer: 0, Category: "Geography"},
		domain.Question{ID: 2, Prompt: "b?", Options: []string{"x", "y"}, Answer: 1, Category: "Geography"},
	)
	users := memory.NewUserStore()
	_ = users.Put(context.Background(), 1, domain.UserStat{Answered: 2, Correct: 1})

	mux := http.NewServeMux()
	NewStatusHandler(app.NewAggregator(questions, users)).Register(mux)
	return httptest.NewServer(mux)
}
