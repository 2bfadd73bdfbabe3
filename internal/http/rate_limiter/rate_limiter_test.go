package rate_limiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllow_RespectsBurstPerKey(t *testing.T) {
	l := New(0.001, 2)

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"), "third request exceeds the burst")

	assert.True(t, l.Allow("10.0.0.2"), "other clients have their own bucket")
}

func TestEvictIdle(t *testing.T) {
	l := New(1, 1)
	l.Allow("a")
	l.Allow("b")
	assert.Equal(t, 2, l.Len())

	l.mu.Lock()
	l.visitors["a"].lastSeen = time.Now().Add(-10 * time.Minute)
	l.mu.Unlock()

	l.evictIdle(5 * time.Minute)
	assert.Equal(t, 1, l.Len())

	l.Reset()
	assert.Zero(t, l.Len())
}
