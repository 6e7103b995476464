package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript удаляет ключ, только если значение совпадает с токеном владельца
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker распределенная блокировка на SET NX с токеном владельца
// Используется, чтобы тик монитора бронирований выполняла только одна реплика
type RedisLocker struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisLocker создает блокировку поверх клиента Redis
func NewRedisLocker(client redis.UniversalClient, prefix string) *RedisLocker {
	return &RedisLocker{client: client, prefix: prefix}
}

// TryLock пытается захватить блокировку на ttl
// Возвращает токен владельца; пустой токен и nil ошибка означают, что блокировка занята
func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	token := uuid.NewString()

	acquired, err := l.client.SetNX(ctx, l.prefix+key, token, ttl).Result()
	if err != nil {
		return "", fmt.Errorf("%w: key=%s: %v", ErrAcquire, key, err)
	}
	if !acquired {
		return "", nil
	}

	return token, nil
}

// Unlock освобождает блокировку, если она все еще принадлежит token
func (l *RedisLocker) Unlock(ctx context.Context, key, token string) error {
	n, err := releaseScript.Run(ctx, l.client, []string{l.prefix + key}, token).Int64()
	if err != nil {
		return fmt.Errorf("%w: key=%s: %v", ErrRelease, key, err)
	}
	if n == 0 {
		return ErrNotOwner
	}
	return nil
}

// NewClient создает клиента Redis и проверяет соединение
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	return client, nil
}
