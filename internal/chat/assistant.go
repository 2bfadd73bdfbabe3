// Package chat implements the scripted research assistant. Replies are
// picked from a fixed set; there is no inference behind them.
package chat

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/momna763/Target-Lock/internal/models"
)

const (
	HistoryLimit  = 50
	MaxMessageLen = 2000
)

var (
	ErrEmptyMessage   = errors.New("message is required")
	ErrMessageTooLong = fmt.Errorf("message exceeds %d characters", MaxMessageLen)
)

var Replies = []string{
	"I can help you find trending products, analyze market data, and provide insights about profitable opportunities.",
	"Based on current market trends, smart home devices and wearable technology are showing strong growth potential.",
	"I recommend focusing on products with profitability scores above 80% for the best returns.",
	"Let me show you some trending products in the electronics category...",
	"You can export reports from the Reports section or view detailed analytics on the Analytics page.",
	"For personalized recommendations, I suggest checking the Recommendations page based on your preferences.",
}

// History stores a per-user conversation, oldest message first.
type History interface {
	Append(ctx context.Context, userID int, msgs ...models.ChatMessage) error
	Recent(ctx context.Context, userID int, n int) ([]models.ChatMessage, error)
}

type Assistant struct {
	history History
	now     func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewAssistant builds an assistant; a nil rnd gets a time-seeded source.
func NewAssistant(history History, rnd *rand.Rand) *Assistant {
	if rnd == nil {
		seed := uint64(time.Now().UnixNano())
		rnd = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return &Assistant{history: history, rnd: rnd, now: time.Now}
}

func (a *Assistant) pick() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Replies[a.rnd.IntN(len(Replies))]
}

// Reply records the user's message and a canned answer, returning both.
func (a *Assistant) Reply(ctx context.Context, userID int, text string) (models.ChatMessage, models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ChatMessage{}, models.ChatMessage{}, ErrEmptyMessage
	}
	if len(text) > MaxMessageLen {
		return models.ChatMessage{}, models.ChatMessage{}, ErrMessageTooLong
	}

	now := a.now().UTC()
	question := models.ChatMessage{ID: uuid.NewString(), Sender: models.SenderUser, Text: text, Timestamp: now}
	answer := models.ChatMessage{ID: uuid.NewString(), Sender: models.SenderBot, Text: a.pick(), Timestamp: now}

	if err := a.history.Append(ctx, userID, question, answer); err != nil {
		return models.ChatMessage{}, models.ChatMessage{}, fmt.Errorf("failed to store chat messages: %w", err)
	}
	return question, answer, nil
}

func (a *Assistant) History(ctx context.Context, userID int) ([]models.ChatMessage, error) {
	return a.history.Recent(ctx, userID, HistoryLimit)
}
