package lock

import (
	"context"
	"time"
)

// NoopLocker блокировка для одиночного экземпляра: захват всегда успешен
type NoopLocker struct{}

// TryLock всегда захватывает блокировку
func (NoopLocker) TryLock(_ context.Context, _ string, _ time.Duration) (string, error) {
	return "noop", nil
}

// Unlock ничего не делает
func (NoopLocker) Unlock(_ context.Context, _, _ string) error {
	return nil
}
