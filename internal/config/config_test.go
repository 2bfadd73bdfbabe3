package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momna763/Target-Lock/internal/insights"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":5001", cfg.HTTP.Addr)
	assert.Equal(t, StorageMongo, cfg.Storage.Driver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "targetlock", cfg.Mongo.Database)
	assert.Equal(t, 15*time.Minute, cfg.JWT.TTL)
	assert.Equal(t, 10.0, cfg.Insights.TrendingThreshold)
	assert.Equal(t, 8, cfg.Insights.RecommendationLimit)
	assert.False(t, cfg.Catalog.DemoFallback)
	assert.Empty(t, cfg.Postgres.URL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://mongo:27017")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/targetlock")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DEMO_FALLBACK", "true")
	t.Setenv("INSIGHTS_TRENDING_THRESHOLD", "12.5")
	t.Setenv("RATELIMIT_BAN_DURATION", "1h")
	t.Setenv("PORT", "8080")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mongodb://mongo:27017", cfg.Mongo.URI)
	assert.Equal(t, "postgres://u:p@db:5432/targetlock", cfg.Postgres.URL)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.True(t, cfg.Catalog.DemoFallback)
	assert.Equal(t, 12.5, cfg.Insights.TrendingThreshold)
	assert.Equal(t, time.Hour, cfg.RateLimit.BanDuration)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
}

func TestLoad_HTTPAddrWinsOverPort(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("HTTP_ADDR", "127.0.0.1:9000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.driver")
}

func TestValidate(t *testing.T) {
	cfg := Config{
		Storage:   StorageConfig{Driver: StorageMemory},
		JWT:       JWTConfig{Secret: " ", TTL: 0},
		RateLimit: RateLimitConfig{RPS: 1, Burst: 1},
		Insights:  InsightsConfig{RecommendationLimit: 0},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret")
	assert.Contains(t, err.Error(), "jwt.ttl")
	assert.Contains(t, err.Error(), "recommendation_limit")
}

func TestValidate_RecommendationLimitRange(t *testing.T) {
	base := Config{
		Storage:   StorageConfig{Driver: StorageMemory},
		JWT:       JWTConfig{Secret: "s", TTL: time.Hour},
		RateLimit: RateLimitConfig{RPS: 1, Burst: 1},
	}

	for _, tc := range []struct {
		limit int
		ok    bool
	}{
		{0, false},
		{1, true},
		{insights.MaxRecommendationLimit, true},
		{insights.MaxRecommendationLimit + 1, false},
	} {
		cfg := base
		cfg.Insights.RecommendationLimit = tc.limit
		err := cfg.Validate()
		if tc.ok {
			assert.NoError(t, err, "limit %d", tc.limit)
		} else {
			assert.ErrorContains(t, err, "recommendation_limit", "limit %d", tc.limit)
		}
	}
}
