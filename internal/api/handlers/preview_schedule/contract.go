package preview_schedule

import (
	"context"

	generateSchedule "github.com/m04kA/SMC-QuestScheduleService/internal/usecase/generate_schedule"
)

type PreviewScheduleUseCase interface {
	Preview(ctx context.Context, req *generateSchedule.Request) (*generateSchedule.PreviewResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
