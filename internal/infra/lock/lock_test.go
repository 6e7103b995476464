package lock

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopLocker(t *testing.T) {
	var l NoopLocker

	token, err := l.TryLock(context.Background(), "monitor", time.Minute)

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NoError(t, l.Unlock(context.Background(), "monitor", token))
}

func TestRedisLocker_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	l := NewRedisLocker(client, "questsched:")

	token, err := l.TryLock(context.Background(), "monitor", time.Minute)

	assert.ErrorIs(t, err, ErrAcquire)
	assert.Empty(t, token)
}
