package schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
)

// ScheduleRepository интерфейс репозитория шаблонов и исключений расписания
type ScheduleRepository interface {
	GetWeeklyTemplate(ctx context.Context, questID int64) ([]*domain.WeeklySlotTemplate, error)
	ReplaceWeeklyTemplate(ctx context.Context, questID int64, entries []domain.WeeklySlotTemplate) error
	GetOverride(ctx context.Context, questID int64, date time.Time) (*domain.DateOverride, error)
	UpsertOverride(ctx context.Context, o *domain.DateOverride) (*domain.DateOverride, error)
	DeleteOverride(ctx context.Context, questID int64, date time.Time) error
}

// QuestRepository интерфейс репозитория квестов
type QuestRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Quest, error)
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
