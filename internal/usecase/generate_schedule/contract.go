package generate_schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
)

// QuestRepository интерфейс репозитория квестов
type QuestRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Quest, error)
	ListActive(ctx context.Context) ([]*domain.Quest, error)
}

// ScheduleRepository интерфейс репозитория шаблонов и исключений
type ScheduleRepository interface {
	GetWeeklyTemplate(ctx context.Context, questID int64) ([]*domain.WeeklySlotTemplate, error)
	ListOverrides(ctx context.Context, questID int64, from, to time.Time) ([]*domain.DateOverride, error)
}

// PricingRuleRepository интерфейс репозитория правил ценообразования
type PricingRuleRepository interface {
	List(ctx context.Context, filter domain.PricingRuleFilter) ([]*domain.PricingRule, error)
}

// CalendarRepository интерфейс репозитория производственного календаря
type CalendarRepository interface {
	ListRange(ctx context.Context, from, to time.Time) ([]*domain.CalendarDay, error)
}

// SlotRepository интерфейс репозитория слотов
// Генерация меняет только свободные слоты: все изменения условны по is_booked = false
type SlotRepository interface {
	List(ctx context.Context, filter domain.SlotFilter) ([]*domain.Slot, error)
	InsertIfAbsent(ctx context.Context, s domain.GeneratedSlot) (bool, error)
	UpdatePriceIfFree(ctx context.Context, id int64, price int64) (bool, error)
	DeleteFree(ctx context.Context, ids []int64) (int64, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс метрик генерации
type Metrics interface {
	AddGeneratedSlots(action string, count int)
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
