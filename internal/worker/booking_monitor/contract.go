package booking_monitor

import (
	"context"
	"time"

	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListExpiredAwaiting(ctx context.Context, createdBefore time.Time, limit int) ([]*domain.Booking, error)
	ListConfirmedUntil(ctx context.Context, date time.Time, limit int) ([]*domain.Booking, error)
	TransitionStatus(ctx context.Context, id int64, from []domain.BookingStatus, to domain.BookingStatus) (bool, error)
}

// SlotReleaser освобождает слот, если он все еще занят указанным бронированием
type SlotReleaser interface {
	ReleaseForBooking(ctx context.Context, slotID, bookingID int64) (bool, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Locker распределенная блокировка тика (одна реплика за раз)
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (string, error)
	Unlock(ctx context.Context, key, token string) error
}

// Metrics интерфейс метрик монитора
type Metrics interface {
	IncMonitorTransition(to string)
	IncMonitorError()
	ObserveMonitorTick(duration time.Duration)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
