package pricing

import (
	"context"

	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
)

// RuleRepository интерфейс репозитория правил ценообразования
type RuleRepository interface {
	Create(ctx context.Context, rule *domain.PricingRule) (*domain.PricingRule, error)
	Update(ctx context.Context, rule *domain.PricingRule) (*domain.PricingRule, error)
	GetByID(ctx context.Context, id int64) (*domain.PricingRule, error)
	List(ctx context.Context, filter domain.PricingRuleFilter) ([]*domain.PricingRule, error)
	Delete(ctx context.Context, id int64) error
}

// QuestRepository интерфейс репозитория квестов
type QuestRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Quest, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
