package telegram

import (
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestCallbackWithoutMessageIgnored(t *testing.T) {
	// Inline-mode and expired callbacks carry no message. The handler must
	// bail out before touching the API or any chat state.
	b := &Bot{drafts: make(map[int64]*draftFlow)}

	b.handleCallback(context.Background(), &tgbotapi.CallbackQuery{
		ID:   "cb1",
		Data: "ans_0",
	})

	if len(b.drafts) != 0 {
		t.Fatalf("expected no draft state touched, got %d", len(b.drafts))
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 30); got != "short" {
		t.Fatalf("expected untouched string, got %q", got)
	}
	if got := truncate("abcdefghij", 4); got != "abcd..." {
		t.Fatalf("expected truncated string, got %q", got)
	}
}
