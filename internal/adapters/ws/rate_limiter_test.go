package ws

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimiterSlidingWindow(t *testing.T) {
	req := require.New(t)
	rl := NewMessageRateLimiter(2, 50*time.Millisecond)

	req.True(rl.Allow(1))
	req.True(rl.Allow(1))
	req.False(rl.Allow(1))

	// another user has an independent budget
	req.True(rl.Allow(2))

	time.Sleep(60 * time.Millisecond)
	req.True(rl.Allow(1))
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewMessageRateLimiter(0, time.Second)
	for i := 0; i < 100; i++ {
		require.True(t, rl.Allow(1))
	}
}
