package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/momna763/Target-Lock/internal/models"
)

const (
	historyKeyPrefix = "chat:history:"
	HistoryTTL       = 7 * 24 * time.Hour
)

// RedisHistory keeps each user's conversation in a capped Redis list.
type RedisHistory struct {
	rdb *redis.Client
	max int64
}

func NewRedisHistory(rdb *redis.Client, max int) *RedisHistory {
	return &RedisHistory{rdb: rdb, max: int64(max)}
}

func historyKey(userID int) string {
	return fmt.Sprintf("%s%d", historyKeyPrefix, userID)
}

func (h *RedisHistory) Append(ctx context.Context, userID int, msgs ...models.ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	values := make([]any, 0, len(msgs))
	for _, m := range msgs {
		data, err := json.Marshal(m)
		if err != nil {
			return err
		}
		values = append(values, data)
	}

	key := historyKey(userID)
	pipe := h.rdb.TxPipeline()
	pipe.RPush(ctx, key, values...)
	if h.max > 0 {
		pipe.LTrim(ctx, key, -h.max, -1)
	}
	pipe.Expire(ctx, key, HistoryTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (h *RedisHistory) Recent(ctx context.Context, userID int, n int) ([]models.ChatMessage, error) {
	start := int64(0)
	if n > 0 {
		start = -int64(n)
	}
	items, err := h.rdb.LRange(ctx, historyKey(userID), start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read chat history: %w", err)
	}

	return decodeHistory(items)
}

func decodeHistory(items []string) ([]models.ChatMessage, error) {
	msgs := make([]models.ChatMessage, 0, len(items))
	for i, item := range items {
		var m models.ChatMessage
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			return nil, fmt.Errorf("failed to decode chat history entry %d: %w", i, err)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}
