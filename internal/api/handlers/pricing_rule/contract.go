package pricing_rule

import (
	"context"

	"github.com/m04kA/SMC-QuestScheduleService/internal/service/pricing/models"
)

type PricingService interface {
	UpsertPricingRule(ctx context.Context, req *models.UpsertRuleRequest) (*models.RuleResponse, error)
	GetByID(ctx context.Context, id int64) (*models.RuleResponse, error)
	List(ctx context.Context, req *models.ListRulesRequest) (*models.RuleListResponse, error)
	Delete(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
