package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
	questRepo "github.com/m04kA/SMC-QuestScheduleService/internal/infra/storage/quest"
)

// UseCase use case для получения свободных слотов квеста
type UseCase struct {
	questRepo    QuestRepository
	slotRepo     SlotRepository
	settings     domain.EngineSettings
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	questRepo QuestRepository,
	slotRepo SlotRepository,
	settings domain.EngineSettings,
	logger Logger,
) *UseCase {
	return &UseCase{
		questRepo:    questRepo,
		slotRepo:     slotRepo,
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

// Execute возвращает свободные слоты квеста за диапазон дат
// Слоты внутри окна отсечки (и уже начавшиеся) не возвращаются
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if req.QuestID <= 0 {
		return nil, ErrInvalidInput
	}

	now := uc.timeProvider.Now()
	from, to := uc.settings.DefaultWindow(now)
	if req.From != nil {
		from = domain.DateOnly(*req.From)
	}
	if req.To != nil {
		to = domain.DateOnly(*req.To)
	}
	if to.Before(from) {
		uc.logger.Warn("ListAvailableSlots: reversed range from=%s, to=%s", domain.FormatDate(from), domain.FormatDate(to))
		return nil, ErrInvalidRange
	}
	if days := int(to.Sub(from).Hours()/24) + 1; days > domain.MaxGenerationDays {
		uc.logger.Warn("ListAvailableSlots: range of %d days exceeds limit of %d", days, domain.MaxGenerationDays)
		return nil, fmt.Errorf("%w: %d days exceeds limit of %d", ErrInvalidRange, days, domain.MaxGenerationDays)
	}

	uc.logger.Info("ListAvailableSlots: quest=%d, from=%s, to=%s", req.QuestID, domain.FormatDate(from), domain.FormatDate(to))

	// 2. Проверяем существование квеста
	if _, err := uc.questRepo.GetByID(ctx, req.QuestID); err != nil {
		if errors.Is(err, questRepo.ErrQuestNotFound) {
			uc.logger.Warn("ListAvailableSlots: quest id=%d not found", req.QuestID)
			return nil, ErrQuestNotFound
		}
		uc.logger.Error("ListAvailableSlots: failed to get quest id=%d: %v", req.QuestID, err)
		return nil, fmt.Errorf("%w: failed to get quest: %v", ErrInternal, err)
	}

	// 3. Получаем свободные слоты
	slots, err := uc.slotRepo.List(ctx, domain.SlotFilter{
		QuestID:  req.QuestID,
		FromDate: from,
		ToDate:   to,
		OnlyFree: true,
	})
	if err != nil {
		uc.logger.Error("ListAvailableSlots: failed to list slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	// 4. Отсекаем слоты, которые уже нельзя забронировать
	result := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if s.IsBooked || uc.isTooLate(s, now) {
			continue
		}
		result = append(result, Slot{
			ID:        s.ID,
			Date:      s.Date,
			StartTime: s.StartTime,
			Price:     s.Price,
		})
	}

	return &Response{QuestID: req.QuestID, From: from, To: to, Slots: result}, nil
}

func (uc *UseCase) isTooLate(s *domain.Slot, now time.Time) bool {
	return domain.IsWithinCutoff(s.StartsAt(uc.settings.Loc()), now, uc.settings.BookingCutoff)
}
