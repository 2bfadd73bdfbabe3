// Package ban tracks rate-limit strikes per client and bans clients that
// keep exceeding their budget.
package ban

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	DailyBanLogKey = "ratelimit:banlog:daily"
	strikesPrefix  = "ratelimit:strikes:"
	bannedPrefix   = "ratelimit:banned:"
	strikeWindow   = 10 * time.Minute
)

type BanLogEntry struct {
	Target  string    `json:"target"`
	Route   string    `json:"route"`
	Strikes int       `json:"strikes"`
	Time    time.Time `json:"time"`
}

// Store persists strikes, active bans and the ban log.
type Store interface {
	AddStrike(ctx context.Context, target string) (int, error)
	Ban(ctx context.Context, target string, d time.Duration) error
	IsBanned(ctx context.Context, target string) (bool, error)
	Log(ctx context.Context, e BanLogEntry) error
	// Drain returns and clears the ban log.
	Drain(ctx context.Context) ([]BanLogEntry, error)
}

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) AddStrike(ctx context.Context, target string) (int, error) {
	key := strikesPrefix + target
	n, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		_ = s.rdb.Expire(ctx, key, strikeWindow).Err()
	}
	return int(n), nil
}

func (s *RedisStore) Ban(ctx context.Context, target string, d time.Duration) error {
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, bannedPrefix+target, "1", d)
	pipe.Del(ctx, strikesPrefix+target)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) IsBanned(ctx context.Context, target string) (bool, error) {
	n, err := s.rdb.Exists(ctx, bannedPrefix+target).Result()
	return n > 0, err
}

func (s *RedisStore) Log(ctx context.Context, e BanLogEntry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.rdb.RPush(ctx, DailyBanLogKey, data).Err()
}

func (s *RedisStore) Drain(ctx context.Context) ([]BanLogEntry, error) {
	items, err := s.rdb.LRange(ctx, DailyBanLogKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	_ = s.rdb.Del(ctx, DailyBanLogKey).Err()

	entries := make([]BanLogEntry, 0, len(items))
	for _, item := range items {
		var e BanLogEntry
		if err := json.Unmarshal([]byte(item), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// MemoryStore is the single-process Store used without Redis.
type MemoryStore struct {
	mu      sync.Mutex
	now     func() time.Time
	strikes map[string]int
	banned  map[string]time.Time
	log     []BanLogEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:     time.Now,
		strikes: make(map[string]int),
		banned:  make(map[string]time.Time),
	}
}

func (s *MemoryStore) AddStrike(_ context.Context, target string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.strikes[target]++
	return s.strikes[target], nil
}

func (s *MemoryStore) Ban(_ context.Context, target string, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.banned[target] = s.now().Add(d)
	delete(s.strikes, target)
	return nil
}

func (s *MemoryStore) IsBanned(_ context.Context, target string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.banned[target]
	if !ok {
		return false, nil
	}
	if !s.now().Before(until) {
		delete(s.banned, target)
		return false, nil
	}
	return true, nil
}

func (s *MemoryStore) Log(_ context.Context, e BanLogEntry) error {
	s.mu.Lock()
	s.log = append(s.log, e)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Drain(_ context.Context) ([]BanLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.log
	s.log = nil
	return out, nil
}

// Guard applies the strike policy on top of a Store.
type Guard struct {
	store       Store
	maxStrikes  int
	banDuration time.Duration
	log         *zap.Logger
}

func NewGuard(store Store, maxStrikes int, banDuration time.Duration, log *zap.Logger) *Guard {
	if log == nil {
		log = zap.NewNop()
	}
	return &Guard{store: store, maxStrikes: maxStrikes, banDuration: banDuration, log: log}
}

func (g *Guard) IsBanned(ctx context.Context, target string) bool {
	banned, err := g.store.IsBanned(ctx, target)
	if err != nil {
		g.log.Warn("ban lookup failed", zap.String("target", target), zap.Error(err))
		return false
	}
	return banned
}

// Strike records a rate-limit violation and reports whether it caused a ban.
func (g *Guard) Strike(ctx context.Context, target, route string) bool {
	strikes, err := g.store.AddStrike(ctx, target)
	if err != nil {
		g.log.Warn("strike not recorded", zap.String("target", target), zap.Error(err))
		return false
	}
	if g.maxStrikes <= 0 || strikes < g.maxStrikes {
		return false
	}

	if err := g.store.Ban(ctx, target, g.banDuration); err != nil {
		g.log.Error("ban failed", zap.String("target", target), zap.Error(err))
		return false
	}
	entry := BanLogEntry{Target: target, Route: route, Strikes: strikes, Time: time.Now().UTC()}
	if err := g.store.Log(ctx, entry); err != nil {
		g.log.Warn("ban log write failed", zap.Error(err))
	}
	g.log.Warn("client banned",
		zap.String("target", target),
		zap.String("route", route),
		zap.Int("strikes", strikes),
		zap.Duration("duration", g.banDuration),
	)
	return true
}

// Summary aggregates a day of ban log entries.
type Summary struct {
	Total    int
	ByRoute  map[string]int
	ByTarget map[string]int
}

func Summarize(entries []BanLogEntry) Summary {
	s := Summary{
		Total:    len(entries),
		ByRoute:  make(map[string]int),
		ByTarget: make(map[string]int),
	}
	for _, e := range entries {
		s.ByRoute[e.Route]++
		s.ByTarget[e.Target]++
	}
	return s
}

func (s Summary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "total bans: %d", s.Total)
	for _, route := range sortedKeys(s.ByRoute) {
		fmt.Fprintf(&sb, "; %s=%d", route, s.ByRoute[route])
	}
	return sb.String()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// StartDailySummary drains the ban log once a day at 23:59 and logs a summary.
func (g *Guard) StartDailySummary(ctx context.Context) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 0, 0, now.Location())
		if !next.After(now) {
			next = next.Add(24 * time.Hour)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(next)):
		}

		entries, err := g.store.Drain(ctx)
		if err != nil || len(entries) == 0 {
			continue
		}
		s := Summarize(entries)
		g.log.Info("daily ban summary",
			zap.Int("total", s.Total),
			zap.Any("by_route", s.ByRoute),
			zap.Any("by_target", s.ByTarget),
		)
	}
}
