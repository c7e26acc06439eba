package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLimiter_DisabledIsNil(t *testing.T) {
	l := NewLimiter("off", 0)
	assert.Nil(t, l)

	// nil limiter never blocks
	require.NoError(t, l.Wait(context.Background()))
	assert.True(t, l.Allow())
	assert.Equal(t, "unlimited", l.Name())
}

func TestLimiter_Burst(t *testing.T) {
	l := NewLimiter("yahoo", 60) // 1 req/s, burst 6

	for i := 0; i < 6; i++ {
		assert.True(t, l.Allow(), "request %d within burst", i)
	}
	assert.False(t, l.Allow())
}

func TestLimiter_WaitHonoursContext(t *testing.T) {
	l := NewLimiter("slow", 1) // one request per minute, burst 1
	require.True(t, l.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter slow")
}
