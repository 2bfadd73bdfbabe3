package chat

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momna763/Target-Lock/internal/models"
)

func TestReply_StoresBothMessages(t *testing.T) {
	ctx := context.Background()
	a := NewAssistant(NewMemoryHistory(HistoryLimit), rand.New(rand.NewPCG(1, 2)))

	q, ans, err := a.Reply(ctx, 1, "  what is trending?  ")
	require.NoError(t, err)
	assert.Equal(t, models.SenderUser, q.Sender)
	assert.Equal(t, "what is trending?", q.Text)
	assert.Equal(t, models.SenderBot, ans.Sender)
	assert.Contains(t, Replies, ans.Text)
	assert.NotEqual(t, q.ID, ans.ID)

	history, err := a.History(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []models.ChatMessage{q, ans}, history)

	other, err := a.History(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestReply_SameSeedSameAnswers(t *testing.T) {
	ctx := context.Background()
	a := NewAssistant(NewMemoryHistory(0), rand.New(rand.NewPCG(7, 7)))
	b := NewAssistant(NewMemoryHistory(0), rand.New(rand.NewPCG(7, 7)))

	for range 5 {
		_, x, err := a.Reply(ctx, 1, "hi")
		require.NoError(t, err)
		_, y, err := b.Reply(ctx, 1, "hi")
		require.NoError(t, err)
		assert.Equal(t, x.Text, y.Text)
	}
}

func TestReply_RejectsBadInput(t *testing.T) {
	a := NewAssistant(NewMemoryHistory(HistoryLimit), nil)

	_, _, err := a.Reply(context.Background(), 1, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, _, err = a.Reply(context.Background(), 1, strings.Repeat("x", MaxMessageLen+1))
	assert.ErrorIs(t, err, ErrMessageTooLong)
}

func TestHistory_KeepsLatest(t *testing.T) {
	ctx := context.Background()
	a := NewAssistant(NewMemoryHistory(HistoryLimit), nil)

	for range 30 {
		_, _, err := a.Reply(ctx, 9, "ping")
		require.NoError(t, err)
	}
	history, err := a.History(ctx, 9)
	require.NoError(t, err)
	assert.Len(t, history, HistoryLimit)
	assert.Equal(t, models.SenderBot, history[len(history)-1].Sender)
}

func TestDecodeHistory(t *testing.T) {
	msgs, err := decodeHistory([]string{
		`{"id":"1","sender":"user","text":"hi"}`,
		`{"id":"2","sender":"bot","text":"hello"}`,
	})
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hello", msgs[1].Text)

	_, err = decodeHistory([]string{`{"id":"1"}`, `not json`})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry 1")
}
