package slot_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	// Reserve атомарно занимает свободный слот, false - слот уже занят
	Reserve(ctx context.Context, slotID, bookingID int64) (bool, error)
	Release(ctx context.Context, slotID int64) error
	ReleaseForBooking(ctx context.Context, slotID, bookingID int64) (bool, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	AttachSlot(ctx context.Context, bookingID, slotID int64) error
	// DetachSlot снимает ссылку на слот с живых бронирований
	DetachSlot(ctx context.Context, slotID int64) (int64, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс метрик резервирования
type Metrics interface {
	IncReservation(outcome string)
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
