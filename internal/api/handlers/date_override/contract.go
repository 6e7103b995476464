package date_override

import (
	"context"

	"github.com/m04kA/SMC-QuestScheduleService/internal/service/schedule/models"
)

type ScheduleService interface {
	ConfigureDateOverride(ctx context.Context, req *models.ConfigureDateOverrideRequest) (*models.DateOverrideResponse, error)
	GetDateOverride(ctx context.Context, questID int64, date string) (*models.DateOverrideResponse, error)
	DeleteDateOverride(ctx context.Context, questID int64, date string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
