package booking_monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
)

// Monitor фоновый процесс сверки статусов бронирований
//
// По таймеру:
//   - отменяет неподтвержденные бронирования старше PendingTimeout и освобождает их слоты
//   - переводит подтвержденные бронирования, игра которых закончилась, в completed
//
// Ошибка по одному бронированию логируется и не прерывает обработку остальных,
// ошибка хранилища не останавливает цикл - следующий тик повторит попытку.
type Monitor struct {
	cfg          Config
	bookingRepo  BookingRepository
	releaser     SlotReleaser
	txManager    TransactionManager
	locker       Locker
	metrics      Metrics
	settings     domain.EngineSettings
	timeProvider TimeProvider
	logger       Logger
}

// NewMonitor создает монитор бронирований
func NewMonitor(
	cfg Config,
	bookingRepo BookingRepository,
	releaser SlotReleaser,
	txManager TransactionManager,
	locker Locker,
	metrics Metrics,
	settings domain.EngineSettings,
	logger Logger,
) *Monitor {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	return &Monitor{
		cfg:          cfg,
		bookingRepo:  bookingRepo,
		releaser:     releaser,
		txManager:    txManager,
		locker:       locker,
		metrics:      metrics,
		settings:     settings,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (m *Monitor) WithTimeProvider(tp TimeProvider) *Monitor {
	m.timeProvider = tp
	return m
}

// Run запускает цикл монитора и блокируется до отмены ctx
// Первый тик выполняется сразу. Начатая обработка бронирования доводится до конца
// даже при отмене ctx, поэтому после возврата из Run незавершенных освобождений нет.
func (m *Monitor) Run(ctx context.Context) error {
	t := time.NewTicker(m.cfg.Interval)
	defer t.Stop()

	m.logger.Info("BookingMonitor: started, interval=%s, pending_timeout=%s", m.cfg.Interval, m.cfg.PendingTimeout)

	// первый тик сразу
	m.runTick(ctx)

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("BookingMonitor: stopped")
			return nil
		case <-t.C:
			m.runTick(ctx)
		}
	}
}

func (m *Monitor) runTick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	res, err := m.Tick(ctx)
	if err != nil {
		m.metrics.IncMonitorError()
		m.logger.Error("BookingMonitor: tick failed: %v", err)
		return
	}
	if res.Skipped {
		return
	}
	if res.Cancelled+res.Completed+res.Failed > 0 {
		m.logger.Info("BookingMonitor: tick done, cancelled=%d, released=%d, completed=%d, failed=%d",
			res.Cancelled, res.Released, res.Completed, res.Failed)
	}
}

// Tick выполняет одну итерацию сверки
// Отмена ctx останавливает обработку между бронированиями, но не посреди одного
func (m *Monitor) Tick(ctx context.Context) (TickResult, error) {
	started := m.timeProvider.Now()
	defer func() {
		m.metrics.ObserveMonitorTick(time.Since(started))
	}()

	// операции с хранилищем не прерываются отменой родительского контекста
	workCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.cfg.Interval)
	defer cancel()

	token, err := m.locker.TryLock(workCtx, lockKey, m.cfg.Interval)
	if err != nil {
		return TickResult{}, fmt.Errorf("acquire lock: %w", err)
	}
	if token == "" {
		return TickResult{Skipped: true}, nil
	}
	defer func() {
		if err := m.locker.Unlock(workCtx, lockKey, token); err != nil {
			m.logger.Warn("BookingMonitor: failed to release lock: %v", err)
		}
	}()

	var res TickResult

	if err := m.cancelExpired(ctx, workCtx, &res); err != nil {
		return res, err
	}
	if err := m.completeElapsed(ctx, workCtx, &res); err != nil {
		return res, err
	}

	return res, nil
}

// cancelExpired отменяет просроченные неподтвержденные бронирования пачками
func (m *Monitor) cancelExpired(stopCtx, ctx context.Context, res *TickResult) error {
	deadline := m.timeProvider.Now().Add(-m.cfg.PendingTimeout)

	for batch := 0; batch < maxBatchesPerTick; batch++ {
		bookings, err := m.bookingRepo.ListExpiredAwaiting(ctx, deadline, m.cfg.BatchSize)
		if err != nil {
			return fmt.Errorf("list expired bookings: %w", err)
		}

		progress := 0
		for _, b := range bookings {
			if stopCtx.Err() != nil {
				return nil
			}

			released, err := m.cancelOne(ctx, b)
			if err != nil {
				res.Failed++
				m.metrics.IncMonitorError()
				m.logger.Error("BookingMonitor: failed to cancel booking id=%d: %v", b.ID, err)
				continue
			}

			progress++
			res.Cancelled++
			if released {
				res.Released++
			}
		}

		if len(bookings) < m.cfg.BatchSize || progress == 0 {
			return nil
		}
	}

	return nil
}

// cancelOne отменяет бронирование и освобождает его слот в одной транзакции
// Слот освобождается только если он все еще привязан к этому бронированию
func (m *Monitor) cancelOne(ctx context.Context, b *domain.Booking) (bool, error) {
	var released bool

	err := m.txManager.Do(ctx, func(txCtx context.Context) error {
		ok, err := m.bookingRepo.TransitionStatus(txCtx, b.ID, domain.AwaitingConfirmationStatuses, domain.StatusCancelled)
		if err != nil {
			return fmt.Errorf("transition status: %w", err)
		}
		if !ok {
			// статус изменился параллельно (например, бронирование подтвердили)
			return errStatusChanged
		}

		if b.SlotID == nil {
			return nil
		}

		released, err = m.releaser.ReleaseForBooking(txCtx, *b.SlotID, b.ID)
		if err != nil {
			return fmt.Errorf("release slot id=%d: %w", *b.SlotID, err)
		}
		return nil
	})

	if errors.Is(err, errStatusChanged) {
		m.logger.Info("BookingMonitor: booking id=%d changed status concurrently, skipped", b.ID)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	m.metrics.IncMonitorTransition(string(domain.StatusCancelled))
	m.logger.Info("BookingMonitor: booking id=%d cancelled by timeout, slot released=%t", b.ID, released)

	return released, nil
}

// completeElapsed завершает подтвержденные бронирования, игра которых закончилась
func (m *Monitor) completeElapsed(stopCtx, ctx context.Context, res *TickResult) error {
	now := m.timeProvider.Now()
	today := m.settings.Today(now)
	loc := m.settings.Loc()

	for batch := 0; batch < maxBatchesPerTick; batch++ {
		bookings, err := m.bookingRepo.ListConfirmedUntil(ctx, today, m.cfg.BatchSize)
		if err != nil {
			return fmt.Errorf("list confirmed bookings: %w", err)
		}

		progress := 0
		for _, b := range bookings {
			if stopCtx.Err() != nil {
				return nil
			}
			if !b.HasElapsed(now, loc, m.settings.SessionDuration) {
				continue
			}

			ok, err := m.bookingRepo.TransitionStatus(ctx, b.ID, []domain.BookingStatus{domain.StatusConfirmed}, domain.StatusCompleted)
			if err != nil {
				res.Failed++
				m.metrics.IncMonitorError()
				m.logger.Error("BookingMonitor: failed to complete booking id=%d: %v", b.ID, err)
				continue
			}
			if !ok {
				continue
			}

			progress++
			res.Completed++
			m.metrics.IncMonitorTransition(string(domain.StatusCompleted))
		}

		if len(bookings) < m.cfg.BatchSize || progress == 0 {
			return nil
		}
	}

	return nil
}
