package calendar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
	calendarRepo "github.com/m04kA/SMC-QuestScheduleService/internal/infra/storage/calendar"
	"github.com/m04kA/SMC-QuestScheduleService/internal/service/calendar/models"
)

// importBatchSize количество дат в одном INSERT при импорте
const importBatchSize = 500

// Service сервис производственного календаря
type Service struct {
	calendarRepo CalendarRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса календаря
func NewService(calendarRepo CalendarRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		calendarRepo: calendarRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// IsHoliday возвращает true, если дата помечена в календаре как праздничная
// Неразмеченная дата считается рабочей
func (s *Service) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	d := domain.DateOnly(date)

	days, err := s.calendarRepo.ListRange(ctx, d, d)
	if err != nil {
		s.logger.Error("IsHoliday: repository error for date=%s: %v", domain.FormatDate(d), err)
		return false, fmt.Errorf("%w: IsHoliday - repository error: %v", ErrInternal, err)
	}

	return domain.NewProductionCalendar(days).IsHoliday(d), nil
}

// ListRange возвращает размеченные даты диапазона [from, to]
func (s *Service) ListRange(ctx context.Context, rawFrom, rawTo string) (*models.DaysResponse, error) {
	from, err := domain.ParseDate(rawFrom)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid from date", ErrInvalidRange)
	}
	to, err := domain.ParseDate(rawTo)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid to date", ErrInvalidRange)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: to is before from", ErrInvalidRange)
	}

	days, err := s.calendarRepo.ListRange(ctx, from, to)
	if err != nil {
		s.logger.Error("ListRange: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListRange - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainDays(days), nil
}

// Upsert размечает даты вручную (source = manual)
func (s *Service) Upsert(ctx context.Context, req *models.UpsertDaysRequest) (*models.DaysResponse, error) {
	s.logger.Info("Upsert: marking %d calendar days", len(req.Days))

	if len(req.Days) == 0 {
		return nil, fmt.Errorf("%w: no days given", ErrInvalidInput)
	}

	days := make([]*domain.CalendarDay, 0, len(req.Days))
	seen := make(map[string]struct{}, len(req.Days))
	for i, entry := range req.Days {
		date, err := domain.ParseDate(entry.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: days[%d]: invalid date %q", ErrInvalidInput, i, entry.Date)
		}
		if len(entry.Title) > domain.MaxCalendarTitleLength {
			return nil, fmt.Errorf("%w: days[%d]: title is too long", ErrInvalidInput, i)
		}
		if _, ok := seen[entry.Date]; ok {
			return nil, fmt.Errorf("%w: duplicate date %s", ErrInvalidInput, entry.Date)
		}
		seen[entry.Date] = struct{}{}

		days = append(days, &domain.CalendarDay{
			Date:      date,
			IsHoliday: entry.IsHoliday,
			Title:     entry.Title,
			Source:    domain.CalendarSourceManual,
		})
	}

	if err := s.calendarRepo.Upsert(ctx, days); err != nil {
		s.logger.Error("Upsert: repository error: %v", err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainDays(days), nil
}

// Delete снимает разметку с даты
func (s *Service) Delete(ctx context.Context, rawDate string) error {
	date, err := domain.ParseDate(rawDate)
	if err != nil {
		return fmt.Errorf("%w: invalid date %q", ErrInvalidInput, rawDate)
	}

	if err := s.calendarRepo.Delete(ctx, date); err != nil {
		if errors.Is(err, calendarRepo.ErrDayNotFound) {
			return ErrDayNotFound
		}
		s.logger.Error("Delete: repository error for date=%s: %v", rawDate, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: calendar day %s removed", rawDate)
	return nil
}

// ImportCSV импортирует даты из CSV (date,is_holiday[,title]) одной транзакцией
// Файл с ошибкой в любой строке не импортируется целиком
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (*models.ImportResult, error) {
	// 1. Разбираем файл
	days, err := parseCSV(r)
	if err != nil {
		s.logger.Warn("ImportCSV: failed to parse file: %v", err)
		return nil, err
	}

	result := &models.ImportResult{Imported: len(days)}
	for _, d := range days {
		if d.IsHoliday {
			result.Holidays++
		}
	}
	if len(days) == 0 {
		return result, nil
	}

	// 2. Сохраняем пачками в одной транзакции
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		for start := 0; start < len(days); start += importBatchSize {
			end := start + importBatchSize
			if end > len(days) {
				end = len(days)
			}
			if err := s.calendarRepo.Upsert(txCtx, days[start:end]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("ImportCSV: failed to save %d days: %v", len(days), err)
		return nil, fmt.Errorf("%w: ImportCSV - upsert: %v", ErrInternal, err)
	}

	s.logger.Info("ImportCSV: imported %d days, holidays=%d", result.Imported, result.Holidays)
	return result, nil
}
