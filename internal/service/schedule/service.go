package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
	questRepo "github.com/m04kA/SMC-QuestScheduleService/internal/infra/storage/quest"
	scheduleRepo "github.com/m04kA/SMC-QuestScheduleService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-QuestScheduleService/internal/service/schedule/models"
	"github.com/m04kA/SMC-QuestScheduleService/pkg/types"
)

// Service сервис настройки расписания квестов (шаблон и исключения)
type Service struct {
	scheduleRepo ScheduleRepository
	questRepo    QuestRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	scheduleRepo ScheduleRepository,
	questRepo QuestRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		questRepo:    questRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// ConfigureWeeklyTemplate полностью заменяет еженедельный шаблон квеста
// Уже сгенерированные слоты не меняются до следующей генерации
func (s *Service) ConfigureWeeklyTemplate(ctx context.Context, req *models.ConfigureWeeklyTemplateRequest) (*models.WeeklyTemplateResponse, error) {
	s.logger.Info("ConfigureWeeklyTemplate: quest=%d, entries=%d", req.QuestID, len(req.Entries))

	// 1. Валидируем строки шаблона
	if err := validateTemplate(req.Entries); err != nil {
		s.logger.Warn("ConfigureWeeklyTemplate: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем существование квеста
	if err := s.checkQuest(ctx, "ConfigureWeeklyTemplate", req.QuestID); err != nil {
		return nil, err
	}

	// 3. Заменяем шаблон в транзакции
	entries := req.ToDomainTemplate()
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.scheduleRepo.ReplaceWeeklyTemplate(txCtx, req.QuestID, entries)
	})
	if err != nil {
		s.logger.Error("ConfigureWeeklyTemplate: failed to replace template for quest=%d: %v", req.QuestID, err)
		return nil, fmt.Errorf("%w: ConfigureWeeklyTemplate - replace template: %v", ErrInternal, err)
	}

	result := make([]*domain.WeeklySlotTemplate, 0, len(entries))
	for i := range entries {
		result = append(result, &entries[i])
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Weekday != result[j].Weekday {
			return result[i].Weekday < result[j].Weekday
		}
		return result[i].StartTime.IsBefore(result[j].StartTime)
	})

	s.logger.Info("ConfigureWeeklyTemplate: template for quest=%d replaced, entries=%d", req.QuestID, len(entries))
	return models.FromDomainTemplate(req.QuestID, result), nil
}

// GetWeeklyTemplate возвращает еженедельный шаблон квеста
func (s *Service) GetWeeklyTemplate(ctx context.Context, questID int64) (*models.WeeklyTemplateResponse, error) {
	if err := s.checkQuest(ctx, "GetWeeklyTemplate", questID); err != nil {
		return nil, err
	}

	entries, err := s.scheduleRepo.GetWeeklyTemplate(ctx, questID)
	if err != nil {
		s.logger.Error("GetWeeklyTemplate: repository error for quest=%d: %v", questID, err)
		return nil, fmt.Errorf("%w: GetWeeklyTemplate - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainTemplate(questID, entries), nil
}

// ConfigureDateOverride создает или заменяет исключение расписания на дату
// Исключение полностью заменяет шаблон на эту дату
func (s *Service) ConfigureDateOverride(ctx context.Context, req *models.ConfigureDateOverrideRequest) (*models.DateOverrideResponse, error) {
	s.logger.Info("ConfigureDateOverride: quest=%d, date=%s, closed=%t, slots=%d",
		req.QuestID, req.Date, req.IsClosed, len(req.Slots))

	// 1. Валидируем дату и слоты
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		s.logger.Warn("ConfigureDateOverride: invalid date %q", req.Date)
		return nil, fmt.Errorf("%w: invalid date format, expected YYYY-MM-DD", ErrInvalidInput)
	}
	if err := validateOverrideSlots(req.IsClosed, req.Slots); err != nil {
		s.logger.Warn("ConfigureDateOverride: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем существование квеста
	if err := s.checkQuest(ctx, "ConfigureDateOverride", req.QuestID); err != nil {
		return nil, err
	}

	// 3. Собираем доменное исключение (слоты по возрастанию времени)
	override := &domain.DateOverride{
		QuestID:  req.QuestID,
		Date:     date,
		IsClosed: req.IsClosed,
		Slots:    make([]domain.OverrideSlot, 0, len(req.Slots)),
	}
	for _, slot := range req.Slots {
		override.Slots = append(override.Slots, domain.OverrideSlot{
			StartTime: types.TimeString(slot.StartTime),
			Price:     slot.Price,
		})
	}
	sort.Slice(override.Slots, func(i, j int) bool {
		return override.Slots[i].StartTime.IsBefore(override.Slots[j].StartTime)
	})

	// 4. Сохраняем исключение и его слоты в одной транзакции
	var saved *domain.DateOverride
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		saved, err = s.scheduleRepo.UpsertOverride(txCtx, override)
		return err
	})
	if err != nil {
		s.logger.Error("ConfigureDateOverride: failed to save override for quest=%d date=%s: %v", req.QuestID, req.Date, err)
		return nil, fmt.Errorf("%w: ConfigureDateOverride - upsert override: %v", ErrInternal, err)
	}

	s.logger.Info("ConfigureDateOverride: override id=%d saved", saved.ID)
	return models.FromDomainOverride(saved), nil
}

// GetDateOverride возвращает исключение на дату
func (s *Service) GetDateOverride(ctx context.Context, questID int64, rawDate string) (*models.DateOverrideResponse, error) {
	date, err := domain.ParseDate(rawDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date format, expected YYYY-MM-DD", ErrInvalidInput)
	}

	override, err := s.scheduleRepo.GetOverride(ctx, questID, date)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrOverrideNotFound) {
			return nil, ErrOverrideNotFound
		}
		s.logger.Error("GetDateOverride: repository error for quest=%d date=%s: %v", questID, rawDate, err)
		return nil, fmt.Errorf("%w: GetDateOverride - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainOverride(override), nil
}

// DeleteDateOverride удаляет исключение, после чего дата снова строится по шаблону
func (s *Service) DeleteDateOverride(ctx context.Context, questID int64, rawDate string) error {
	s.logger.Info("DeleteDateOverride: quest=%d, date=%s", questID, rawDate)

	date, err := domain.ParseDate(rawDate)
	if err != nil {
		return fmt.Errorf("%w: invalid date format, expected YYYY-MM-DD", ErrInvalidInput)
	}

	if err := s.scheduleRepo.DeleteOverride(ctx, questID, date); err != nil {
		if errors.Is(err, scheduleRepo.ErrOverrideNotFound) {
			s.logger.Warn("DeleteDateOverride: override for quest=%d date=%s not found", questID, rawDate)
			return ErrOverrideNotFound
		}
		s.logger.Error("DeleteDateOverride: repository error: %v", err)
		return fmt.Errorf("%w: DeleteDateOverride - repository error: %v", ErrInternal, err)
	}

	return nil
}

func (s *Service) checkQuest(ctx context.Context, op string, questID int64) error {
	if _, err := s.questRepo.GetByID(ctx, questID); err != nil {
		if errors.Is(err, questRepo.ErrQuestNotFound) {
			s.logger.Warn("%s: quest id=%d not found", op, questID)
			return ErrQuestNotFound
		}
		s.logger.Error("%s: failed to get quest id=%d: %v", op, questID, err)
		return fmt.Errorf("%w: %s - get quest: %v", ErrInternal, op, err)
	}
	return nil
}
