package lock

import "errors"

var (
	// ErrAcquire возвращается при ошибке обращения к Redis при захвате блокировки
	ErrAcquire = errors.New("lock: failed to acquire")

	// ErrRelease возвращается при ошибке обращения к Redis при освобождении блокировки
	ErrRelease = errors.New("lock: failed to release")

	// ErrNotOwner возвращается, когда блокировка истекла и захвачена другим владельцем
	ErrNotOwner = errors.New("lock: lock is not owned by this client")
)
