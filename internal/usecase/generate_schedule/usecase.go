package generate_schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
	questRepo "github.com/m04kA/SMC-QuestScheduleService/internal/infra/storage/quest"
	"github.com/m04kA/SMC-QuestScheduleService/internal/pricing"
)

// UseCase use case генерации расписания
type UseCase struct {
	questRepo    QuestRepository
	scheduleRepo ScheduleRepository
	ruleRepo     PricingRuleRepository
	calendarRepo CalendarRepository
	slotRepo     SlotRepository
	txManager    TransactionManager
	metrics      Metrics
	settings     domain.EngineSettings
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	questRepo QuestRepository,
	scheduleRepo ScheduleRepository,
	ruleRepo PricingRuleRepository,
	calendarRepo CalendarRepository,
	slotRepo SlotRepository,
	txManager TransactionManager,
	metrics Metrics,
	settings domain.EngineSettings,
	logger Logger,
) *UseCase {
	return &UseCase{
		questRepo:    questRepo,
		scheduleRepo: scheduleRepo,
		ruleRepo:     ruleRepo,
		calendarRepo: calendarRepo,
		slotRepo:     slotRepo,
		txManager:    txManager,
		metrics:      metrics,
		settings:     settings,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute генерирует и сохраняет слоты для квеста (или всех активных квестов) за диапазон дат
// Повторный вызов идемпотентен: забронированные слоты не изменяются,
// свободные получают ту же цену при неизменных входных данных
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Диапазон дат
	from, to, err := uc.resolveWindow(req)
	if err != nil {
		uc.logger.Warn("GenerateSchedule: %v", err)
		return nil, err
	}

	// 2. Список квестов
	quests, err := uc.resolveQuests(ctx, req.QuestID)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("GenerateSchedule: quests=%d, from=%s, to=%s",
		len(quests), domain.FormatDate(from), domain.FormatDate(to))

	// 3. Производственный календарь общий для всех квестов
	calendar, err := uc.loadCalendar(ctx, from, to)
	if err != nil {
		return nil, err
	}

	resp := &Response{From: from, To: to, Quests: make([]QuestResult, 0, len(quests))}

	// 4. Генерация и сохранение по каждому квесту в отдельной транзакции
	for _, q := range quests {
		stats, err := uc.generateQuest(ctx, q.ID, from, to, calendar)
		if err != nil {
			uc.logger.Error("GenerateSchedule: quest id=%d failed: %v", q.ID, err)
			return nil, err
		}

		resp.Quests = append(resp.Quests, QuestResult{QuestID: q.ID, Stats: stats})
		resp.Total.add(stats)
	}

	uc.metrics.AddGeneratedSlots(ActionCreated, resp.Total.Created)
	uc.metrics.AddGeneratedSlots(ActionUpdated, resp.Total.Updated)
	uc.metrics.AddGeneratedSlots(ActionRemoved, resp.Total.Removed)
	uc.metrics.AddGeneratedSlots(ActionSkippedBooked, resp.Total.SkippedBooked)

	uc.logger.Info("GenerateSchedule: done, created=%d, updated=%d, removed=%d, skipped_booked=%d, blocked=%d",
		resp.Total.Created, resp.Total.Updated, resp.Total.Removed, resp.Total.SkippedBooked, resp.Total.Blocked)

	return resp, nil
}

// Preview возвращает ячейки расписания квеста без сохранения, включая заблокированные
func (uc *UseCase) Preview(ctx context.Context, req *Request) (*PreviewResponse, error) {
	if req.QuestID == nil {
		return nil, fmt.Errorf("%w: quest id is required", ErrInvalidRange)
	}

	from, to, err := uc.resolveWindow(req)
	if err != nil {
		return nil, err
	}

	if _, err := uc.resolveQuests(ctx, req.QuestID); err != nil {
		return nil, err
	}

	calendar, err := uc.loadCalendar(ctx, from, to)
	if err != nil {
		return nil, err
	}

	input, err := uc.loadInput(ctx, *req.QuestID, from, to, calendar)
	if err != nil {
		return nil, err
	}

	return &PreviewResponse{QuestID: *req.QuestID, From: from, To: to, Cells: Generate(input)}, nil
}

func (uc *UseCase) resolveWindow(req *Request) (time.Time, time.Time, error) {
	defFrom, defTo := uc.settings.DefaultWindow(uc.timeProvider.Now())

	from, to := defFrom, defTo
	if req.From != nil {
		from = domain.DateOnly(*req.From)
	}
	if req.To != nil {
		to = domain.DateOnly(*req.To)
	} else if req.From != nil {
		to = from.AddDate(0, 0, uc.settings.BookingDaysAhead)
	}

	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: to=%s is before from=%s",
			ErrInvalidRange, domain.FormatDate(to), domain.FormatDate(from))
	}
	if days := len(domain.DaysInRange(from, to)); days > domain.MaxGenerationDays {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %d days exceeds limit of %d",
			ErrInvalidRange, days, domain.MaxGenerationDays)
	}

	return from, to, nil
}

func (uc *UseCase) resolveQuests(ctx context.Context, questID *int64) ([]*domain.Quest, error) {
	if questID == nil {
		quests, err := uc.questRepo.ListActive(ctx)
		if err != nil {
			uc.logger.Error("GenerateSchedule: failed to list quests: %v", err)
			return nil, fmt.Errorf("%w: failed to list quests: %v", ErrStorageFailure, err)
		}
		return quests, nil
	}

	q, err := uc.questRepo.GetByID(ctx, *questID)
	if err != nil {
		if errors.Is(err, questRepo.ErrQuestNotFound) {
			uc.logger.Warn("GenerateSchedule: quest id=%d not found", *questID)
			return nil, ErrQuestNotFound
		}
		uc.logger.Error("GenerateSchedule: failed to get quest id=%d: %v", *questID, err)
		return nil, fmt.Errorf("%w: failed to get quest: %v", ErrStorageFailure, err)
	}

	return []*domain.Quest{q}, nil
}

func (uc *UseCase) loadCalendar(ctx context.Context, from, to time.Time) (*domain.ProductionCalendar, error) {
	days, err := uc.calendarRepo.ListRange(ctx, from, to)
	if err != nil {
		uc.logger.Error("GenerateSchedule: failed to load production calendar: %v", err)
		return nil, fmt.Errorf("%w: failed to load production calendar: %v", ErrStorageFailure, err)
	}
	return domain.NewProductionCalendar(days), nil
}

func (uc *UseCase) loadInput(ctx context.Context, questID int64, from, to time.Time, calendar *domain.ProductionCalendar) (Input, error) {
	templates, err := uc.scheduleRepo.GetWeeklyTemplate(ctx, questID)
	if err != nil {
		return Input{}, fmt.Errorf("%w: failed to load weekly template: %v", ErrStorageFailure, err)
	}

	overrides, err := uc.scheduleRepo.ListOverrides(ctx, questID, from, to)
	if err != nil {
		return Input{}, fmt.Errorf("%w: failed to load date overrides: %v", ErrStorageFailure, err)
	}

	rules, err := uc.ruleRepo.List(ctx, domain.PricingRuleFilter{QuestID: &questID, OnlyActive: true})
	if err != nil {
		return Input{}, fmt.Errorf("%w: failed to load pricing rules: %v", ErrStorageFailure, err)
	}

	return Input{
		QuestID:   questID,
		From:      from,
		To:        to,
		Templates: templates,
		Overrides: overrides,
		Rules:     pricing.NewRuleSet(questID, rules),
		Calendar:  calendar,
	}, nil
}

// generateQuest генерирует ячейки квеста и синхронизирует их со слотами в одной транзакции
func (uc *UseCase) generateQuest(ctx context.Context, questID int64, from, to time.Time, calendar *domain.ProductionCalendar) (Stats, error) {
	var stats Stats

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		input, err := uc.loadInput(txCtx, questID, from, to, calendar)
		if err != nil {
			return err
		}

		cells := Generate(input)
		bookable := Bookable(cells)
		stats.Blocked = len(cells) - len(bookable)

		existing, err := uc.slotRepo.List(txCtx, domain.SlotFilter{QuestID: questID, FromDate: from, ToDate: to})
		if err != nil {
			return fmt.Errorf("%w: failed to list slots: %v", ErrStorageFailure, err)
		}

		synced, err := uc.syncSlots(txCtx, bookable, existing)
		if err != nil {
			return err
		}
		synced.Blocked = stats.Blocked
		stats = synced

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrStorageFailure) {
			return Stats{}, err
		}
		return Stats{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	uc.logger.Info("GenerateSchedule: quest id=%d, created=%d, updated=%d, unchanged=%d, removed=%d, skipped_booked=%d, blocked=%d",
		questID, stats.Created, stats.Updated, stats.Unchanged, stats.Removed, stats.SkippedBooked, stats.Blocked)

	return stats, nil
}

// syncSlots приводит слоты к сгенерированным ячейкам:
// отсутствующие создаются, свободные с другой ценой обновляются,
// свободные, которые больше не генерируются, удаляются, забронированные не трогаются
func (uc *UseCase) syncSlots(ctx context.Context, cells []domain.GeneratedSlot, existing []*domain.Slot) (Stats, error) {
	var stats Stats

	byKey := make(map[domain.SlotKey]*domain.Slot, len(existing))
	for _, s := range existing {
		byKey[s.Key()] = s
	}

	wanted := make(map[domain.SlotKey]struct{}, len(cells))
	for _, cell := range cells {
		key := cell.Key()
		wanted[key] = struct{}{}

		current, ok := byKey[key]
		if !ok {
			created, err := uc.slotRepo.InsertIfAbsent(ctx, cell)
			if err != nil {
				return Stats{}, fmt.Errorf("%w: failed to insert slot: %v", ErrStorageFailure, err)
			}
			if created {
				stats.Created++
			} else {
				stats.Unchanged++
			}
			continue
		}

		if current.IsBooked {
			stats.SkippedBooked++
			continue
		}

		if current.Price == cell.Price {
			stats.Unchanged++
			continue
		}

		updated, err := uc.slotRepo.UpdatePriceIfFree(ctx, current.ID, cell.Price)
		if err != nil {
			return Stats{}, fmt.Errorf("%w: failed to update slot id=%d: %v", ErrStorageFailure, current.ID, err)
		}
		if updated {
			stats.Updated++
		} else {
			// слот заняли между чтением и обновлением
			stats.SkippedBooked++
		}
	}

	stale := make([]int64, 0)
	for key, s := range byKey {
		if _, ok := wanted[key]; ok {
			continue
		}
		if s.IsBooked {
			stats.SkippedBooked++
			continue
		}
		stale = append(stale, s.ID)
	}

	removed, err := uc.slotRepo.DeleteFree(ctx, stale)
	if err != nil {
		return Stats{}, fmt.Errorf("%w: failed to delete stale slots: %v", ErrStorageFailure, err)
	}
	stats.Removed = int(removed)

	return stats, nil
}
