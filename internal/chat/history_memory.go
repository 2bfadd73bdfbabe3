package chat

import (
	"context"
	"sync"

	"github.com/momna763/Target-Lock/internal/models"
)

type MemoryHistory struct {
	mu    sync.RWMutex
	max   int
	items map[int][]models.ChatMessage
}

// NewMemoryHistory keeps at most max messages per user.
func NewMemoryHistory(max int) *MemoryHistory {
	return &MemoryHistory{max: max, items: make(map[int][]models.ChatMessage)}
}

func (h *MemoryHistory) Append(_ context.Context, userID int, msgs ...models.ChatMessage) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	list := append(h.items[userID], msgs...)
	if h.max > 0 && len(list) > h.max {
		list = append([]models.ChatMessage(nil), list[len(list)-h.max:]...)
	}
	h.items[userID] = list
	return nil
}

func (h *MemoryHistory) Recent(_ context.Context, userID int, n int) ([]models.ChatMessage, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	list := h.items[userID]
	if n > 0 && len(list) > n {
		list = list[len(list)-n:]
	}
	out := make([]models.ChatMessage, len(list))
	copy(out, list)
	return out, nil
}
