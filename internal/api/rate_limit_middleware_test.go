package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_PerKeyBuckets(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	defer rl.Stop()

	assert.True(t, rl.Allow("alice"))
	assert.True(t, rl.Allow("alice"))
	assert.False(t, rl.Allow("alice"))
	assert.True(t, rl.Allow("bobby"))
}

func TestRateLimiter_CleanupForgetsIdleKeys(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	defer rl.Stop()

	assert.True(t, rl.Allow("alice"))
	assert.False(t, rl.Allow("alice"))

	rl.cleanup(time.Now().Add(rl.idleTTL + time.Second))

	assert.True(t, rl.Allow("alice"))
}

func TestRateLimiter_RetryAfter(t *testing.T) {
	for perMinute, want := range map[int]int{1: 60, 10: 6, 7: 9, 120: 1} {
		rl := NewRateLimiter(perMinute, 1)
		assert.Equal(t, want, rl.retryAfterSeconds(), perMinute)
		rl.Stop()
	}
}
