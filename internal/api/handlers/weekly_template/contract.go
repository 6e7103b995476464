package weekly_template

import (
	"context"

	"github.com/m04kA/SMC-QuestScheduleService/internal/service/schedule/models"
)

type ScheduleService interface {
	ConfigureWeeklyTemplate(ctx context.Context, req *models.ConfigureWeeklyTemplateRequest) (*models.WeeklyTemplateResponse, error)
	GetWeeklyTemplate(ctx context.Context, questID int64) (*models.WeeklyTemplateResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
