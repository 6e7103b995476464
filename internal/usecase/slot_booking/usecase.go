package slot_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-QuestScheduleService/internal/infra/storage/booking"
	slotRepo "github.com/m04kA/SMC-QuestScheduleService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-QuestScheduleService/pkg/metrics"
)

// UseCase координатор занятости слотов
//
// Единственный путь перевода слота в занятое состояние. Проверка и установка
// занятости выполняются одним условным UPDATE по строке слота, поэтому
// внутрипроцессные блокировки не нужны, а разные слоты не конкурируют.
type UseCase struct {
	slotRepo     SlotRepository
	bookingRepo  BookingRepository
	txManager    TransactionManager
	metrics      Metrics
	settings     domain.EngineSettings
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	metrics Metrics,
	settings domain.EngineSettings,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:     slotRepo,
		bookingRepo:  bookingRepo,
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

// Reserve занимает свободный слот под бронирование
// Из конкурентных вызовов для одного слота успешен ровно один, остальные получают ErrConflict
func (uc *UseCase) Reserve(ctx context.Context, slotID, bookingID int64) error {
	uc.logger.Info("ReserveSlot: slot=%d, booking=%d", slotID, bookingID)

	outcome, err := uc.reserve(ctx, slotID, bookingID)
	uc.metrics.IncReservation(outcome)

	return err
}

func (uc *UseCase) reserve(ctx context.Context, slotID, bookingID int64) (string, error) {
	// 1. Валидация входных данных
	if slotID <= 0 || bookingID <= 0 {
		uc.logger.Warn("ReserveSlot: invalid ids slot=%d, booking=%d", slotID, bookingID)
		return metrics.ReservationError, ErrInvalidInput
	}

	// 2. Получаем слот
	slot, err := uc.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("ReserveSlot: slot id=%d not found", slotID)
			return metrics.ReservationNotFound, ErrSlotNotFound
		}
		uc.logger.Error("ReserveSlot: failed to get slot id=%d: %v", slotID, err)
		return metrics.ReservationError, fmt.Errorf("%w: failed to get slot: %v", ErrStorageFailure, err)
	}

	// 3. Проверка окна отсечки (не зависит от занятости слота)
	now := uc.timeProvider.Now()
	startsAt := slot.StartsAt(uc.settings.Loc())
	if uc.CutoffCheck(slot) == CutoffTooLate {
		uc.logger.Warn("ReserveSlot: slot id=%d starts at %s, inside cutoff window (now=%s)",
			slotID, startsAt.Format("2006-01-02 15:04"), now.In(uc.settings.Loc()).Format("2006-01-02 15:04"))
		return metrics.ReservationTooLate, ErrTooLate
	}

	// 4. Атомарно занимаем слот и привязываем его к бронированию
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		reserved, err := uc.slotRepo.Reserve(txCtx, slotID, bookingID)
		if err != nil {
			return fmt.Errorf("%w: failed to reserve slot: %v", ErrStorageFailure, err)
		}
		if !reserved {
			return ErrConflict
		}

		if err := uc.bookingRepo.AttachSlot(txCtx, bookingID, slotID); err != nil {
			switch {
			case errors.Is(err, bookingRepo.ErrBookingNotFound):
				return ErrBookingNotFound
			case errors.Is(err, bookingRepo.ErrSlotAlreadyReferenced):
				return ErrConflict
			case errors.Is(err, bookingRepo.ErrBookingHasSlot):
				return ErrBookingHasSlot
			default:
				return fmt.Errorf("%w: failed to attach slot to booking: %v", ErrStorageFailure, err)
			}
		}

		return nil
	})

	switch {
	case err == nil:
		uc.logger.Info("ReserveSlot: slot id=%d reserved for booking id=%d", slotID, bookingID)
		return metrics.ReservationOK, nil
	case errors.Is(err, ErrConflict):
		uc.logger.Warn("ReserveSlot: slot id=%d is already booked", slotID)
		return metrics.ReservationConflict, ErrConflict
	case errors.Is(err, ErrBookingHasSlot):
		uc.logger.Warn("ReserveSlot: booking id=%d already holds another slot, slot id=%d not reserved", bookingID, slotID)
		return metrics.ReservationConflict, fmt.Errorf("%w: %w", ErrConflict, ErrBookingHasSlot)
	case errors.Is(err, ErrBookingNotFound):
		uc.logger.Warn("ReserveSlot: booking id=%d not found or cancelled", bookingID)
		return metrics.ReservationNotFound, ErrBookingNotFound
	case errors.Is(err, ErrStorageFailure):
		uc.logger.Error("ReserveSlot: slot id=%d: %v", slotID, err)
		return metrics.ReservationError, err
	default:
		uc.logger.Error("ReserveSlot: slot id=%d: transaction failed: %v", slotID, err)
		return metrics.ReservationError, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
}

// Release освобождает слот и снимает ссылку на него с живого бронирования
// Освобождение уже свободного слота не является ошибкой
func (uc *UseCase) Release(ctx context.Context, slotID int64) error {
	uc.logger.Info("ReleaseSlot: slot=%d", slotID)

	if slotID <= 0 {
		return ErrInvalidInput
	}

	var detached int64
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := uc.slotRepo.Release(txCtx, slotID); err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: failed to release slot: %v", ErrStorageFailure, err)
		}

		n, err := uc.bookingRepo.DetachSlot(txCtx, slotID)
		if err != nil {
			return fmt.Errorf("%w: failed to detach slot from booking: %v", ErrStorageFailure, err)
		}
		detached = n

		return nil
	})

	switch {
	case err == nil:
		uc.logger.Info("ReleaseSlot: slot id=%d released, detached bookings=%d", slotID, detached)
		return nil
	case errors.Is(err, ErrSlotNotFound):
		uc.logger.Warn("ReleaseSlot: slot id=%d not found", slotID)
		return ErrSlotNotFound
	case errors.Is(err, ErrStorageFailure):
		uc.logger.Error("ReleaseSlot: slot id=%d: %v", slotID, err)
		return err
	default:
		uc.logger.Error("ReleaseSlot: slot id=%d: transaction failed: %v", slotID, err)
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
}

// ReleaseForBooking освобождает слот, только если он все еще занят бронированием bookingID
// Возвращает false, если слот уже освобожден (например, вручную) или занят другим бронированием
func (uc *UseCase) ReleaseForBooking(ctx context.Context, slotID, bookingID int64) (bool, error) {
	var released bool
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		ok, err := uc.slotRepo.ReleaseForBooking(txCtx, slotID, bookingID)
		if err != nil {
			return fmt.Errorf("failed to release slot: %v", err)
		}
		if !ok {
			return nil
		}

		if _, err := uc.bookingRepo.DetachSlot(txCtx, slotID); err != nil {
			return fmt.Errorf("failed to detach slot from booking: %v", err)
		}
		released = true

		return nil
	})
	if err != nil {
		uc.logger.Error("ReleaseSlot: slot id=%d for booking id=%d: %v", slotID, bookingID, err)
		return false, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	if released {
		uc.logger.Info("ReleaseSlot: slot id=%d released from booking id=%d", slotID, bookingID)
	}
	return released, nil
}

// CutoffCheck проверяет окно отсечки для слота с настройками площадки
func (uc *UseCase) CutoffCheck(slot *domain.Slot) CutoffResult {
	return CutoffCheck(
		slot.StartsAt(uc.settings.Loc()),
		uc.timeProvider.Now(),
		int(uc.settings.BookingCutoff/time.Minute),
	)
}
