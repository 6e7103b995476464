package calendar

import (
	"context"
	"io"
	"time"

	"github.com/m04kA/SMC-QuestScheduleService/internal/service/calendar/models"
)

type CalendarService interface {
	IsHoliday(ctx context.Context, date time.Time) (bool, error)
	ListRange(ctx context.Context, rawFrom, rawTo string) (*models.DaysResponse, error)
	Upsert(ctx context.Context, req *models.UpsertDaysRequest) (*models.DaysResponse, error)
	Delete(ctx context.Context, rawDate string) error
	ImportCSV(ctx context.Context, r io.Reader) (*models.ImportResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
