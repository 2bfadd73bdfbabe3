package handlers_test_suite

import (
	"net/http"
	"slices"
	"strings"
	"testing"

	"github.com/momna763/Target-Lock/internal/chat"
	handler "github.com/momna763/Target-Lock/internal/http/handlers"
	"github.com/momna763/Target-Lock/internal/models"
)

func TestChat_ReplyAndHistory(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/chat", env.userToken, handler.ChatRequest{Message: "What should I sell?"})
	expectStatus(t, w, http.StatusOK)

	resp := decode[handler.ChatResponse](t, w)
	if resp.Message.Sender != models.SenderUser || resp.Message.Text != "What should I sell?" {
		t.Errorf("unexpected user message %+v", resp.Message)
	}
	if resp.Reply.Sender != models.SenderBot {
		t.Errorf("expected bot sender, got %q", resp.Reply.Sender)
	}
	if !slices.Contains(chat.Replies, resp.Reply.Text) {
		t.Errorf("reply %q is not a canned reply", resp.Reply.Text)
	}

	w = env.do(http.MethodGet, "/api/chat/history", env.userToken, nil)
	expectStatus(t, w, http.StatusOK)
	history := decode[[]models.ChatMessage](t, w)
	if len(history) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(history))
	}
	if history[0].ID != resp.Message.ID || history[1].ID != resp.Reply.ID {
		t.Errorf("history out of order: %+v", history)
	}

	w = env.do(http.MethodGet, "/api/chat/history", env.adminToken, nil)
	expectStatus(t, w, http.StatusOK)
	if other := decode[[]models.ChatMessage](t, w); len(other) != 0 {
		t.Errorf("expected an empty history for another user, got %d", len(other))
	}
}

func TestChat_InvalidMessage(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/chat", env.userToken, handler.ChatRequest{Message: "   "})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a blank message, got %d", w.Code)
	}

	w = env.do(http.MethodPost, "/api/chat", env.userToken, handler.ChatRequest{Message: strings.Repeat("a", chat.MaxMessageLen+1)})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a long message, got %d", w.Code)
	}

	w = env.do(http.MethodPost, "/api/chat", "", handler.ChatRequest{Message: "hi"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without a token, got %d", w.Code)
	}
}
