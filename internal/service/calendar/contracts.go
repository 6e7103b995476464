package calendar

import (
	"context"
	"time"

	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
)

// CalendarRepository интерфейс репозитория производственного календаря
type CalendarRepository interface {
	ListRange(ctx context.Context, from, to time.Time) ([]*domain.CalendarDay, error)
	Upsert(ctx context.Context, days []*domain.CalendarDay) error
	Delete(ctx context.Context, date time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
