package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	calendarHandler "github.com/m04kA/SMC-QuestScheduleService/internal/api/handlers/calendar"
	dateOverrideHandler "github.com/m04kA/SMC-QuestScheduleService/internal/api/handlers/date_override"
	generateScheduleHandler "github.com/m04kA/SMC-QuestScheduleService/internal/api/handlers/generate_schedule"
	getAvailableSlotsHandler "github.com/m04kA/SMC-QuestScheduleService/internal/api/handlers/get_available_slots"
	previewScheduleHandler "github.com/m04kA/SMC-QuestScheduleService/internal/api/handlers/preview_schedule"
	pricingRuleHandler "github.com/m04kA/SMC-QuestScheduleService/internal/api/handlers/pricing_rule"
	releaseSlotHandler "github.com/m04kA/SMC-QuestScheduleService/internal/api/handlers/release_slot"
	reserveSlotHandler "github.com/m04kA/SMC-QuestScheduleService/internal/api/handlers/reserve_slot"
	weeklyTemplateHandler "github.com/m04kA/SMC-QuestScheduleService/internal/api/handlers/weekly_template"
	"github.com/m04kA/SMC-QuestScheduleService/internal/api/middleware"
	"github.com/m04kA/SMC-QuestScheduleService/internal/infra/lock"
	calendarService "github.com/m04kA/SMC-QuestScheduleService/internal/service/calendar"
	pricingService "github.com/m04kA/SMC-QuestScheduleService/internal/service/pricing"
	scheduleService "github.com/m04kA/SMC-QuestScheduleService/internal/service/schedule"
	getAvailableSlotsUC "github.com/m04kA/SMC-QuestScheduleService/internal/usecase/get_available_slots"
	slotBookingUC "github.com/m04kA/SMC-QuestScheduleService/internal/usecase/slot_booking"
	bookingMonitor "github.com/m04kA/SMC-QuestScheduleService/internal/worker/booking_monitor"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the booking status monitor",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), *configPath)
		},
	}
}

func serve(ctx context.Context, configPath string) error {
	a, err := newApp(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg, log := a.cfg, a.log
	log.Info("Starting SMC-QuestScheduleService...")
	log.Info("Engine settings: time_zone=%s, cutoff=%s, days_ahead=%d, session=%s",
		a.settings.Location, a.settings.BookingCutoff, a.settings.BookingDaysAhead, a.settings.SessionDuration)

	// Инициализируем сервисы
	scheduleSvc := scheduleService.NewService(a.scheduleRepository, a.questRepository, a.txManager, log)
	pricingSvc := pricingService.NewService(a.ruleRepository, a.questRepository, log)
	calendarSvc := calendarService.NewService(a.calendarRepository, a.txManager, log)

	// Инициализируем use cases
	generateScheduleUseCase := a.generateScheduleUseCase()
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(a.questRepository, a.slotRepository, a.settings, log)
	slotBookingUseCase := slotBookingUC.NewUseCase(
		a.slotRepository,
		a.bookingRepository,
		a.txManager,
		a.metrics,
		a.settings,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	reserveSlot := reserveSlotHandler.NewHandler(slotBookingUseCase, log)
	releaseSlot := releaseSlotHandler.NewHandler(slotBookingUseCase, log)
	generateSchedule := generateScheduleHandler.NewHandler(generateScheduleUseCase, log)
	previewSchedule := previewScheduleHandler.NewHandler(generateScheduleUseCase, log)
	weeklyTemplate := weeklyTemplateHandler.NewHandler(scheduleSvc, log)
	dateOverride := dateOverrideHandler.NewHandler(scheduleSvc, log)
	pricingRule := pricingRuleHandler.NewHandler(pricingSvc, log)
	calendar := calendarHandler.NewHandler(calendarSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recover(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(a.metrics))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Слоты ---
	api.HandleFunc("/quests/{questId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/slots/{slotId}/reserve", reserveSlot.Handle).Methods(http.MethodPost)
	api.HandleFunc("/slots/{slotId}/release", releaseSlot.Handle).Methods(http.MethodPost)

	// --- Генерация расписания ---
	api.HandleFunc("/schedule/generate", generateSchedule.Handle).Methods(http.MethodPost)
	api.HandleFunc("/quests/{questId}/schedule/preview", previewSchedule.Handle).Methods(http.MethodGet)

	// --- Недельный шаблон и исключения на даты ---
	api.HandleFunc("/quests/{questId}/weekly-template", weeklyTemplate.HandleGet).Methods(http.MethodGet)
	api.HandleFunc("/quests/{questId}/weekly-template", weeklyTemplate.HandlePut).Methods(http.MethodPut)
	api.HandleFunc("/quests/{questId}/overrides/{date}", dateOverride.HandleGet).Methods(http.MethodGet)
	api.HandleFunc("/quests/{questId}/overrides/{date}", dateOverride.HandlePut).Methods(http.MethodPut)
	api.HandleFunc("/quests/{questId}/overrides/{date}", dateOverride.HandleDelete).Methods(http.MethodDelete)

	// --- Правила ценообразования ---
	api.HandleFunc("/pricing-rules", pricingRule.HandleList).Methods(http.MethodGet)
	api.HandleFunc("/pricing-rules", pricingRule.HandleCreate).Methods(http.MethodPost)
	api.HandleFunc("/pricing-rules/{ruleId}", pricingRule.HandleGet).Methods(http.MethodGet)
	api.HandleFunc("/pricing-rules/{ruleId}", pricingRule.HandleUpdate).Methods(http.MethodPut)
	api.HandleFunc("/pricing-rules/{ruleId}", pricingRule.HandleDelete).Methods(http.MethodDelete)

	// --- Производственный календарь ---
	api.HandleFunc("/calendar", calendar.HandleList).Methods(http.MethodGet)
	api.HandleFunc("/calendar", calendar.HandleUpsert).Methods(http.MethodPut)
	api.HandleFunc("/calendar/import", calendar.HandleImport).Methods(http.MethodPost)
	api.HandleFunc("/calendar/{date}", calendar.HandleDelete).Methods(http.MethodDelete)
	api.HandleFunc("/calendar/{date}/holiday", calendar.HandleIsHoliday).Methods(http.MethodGet)

	// Логируем только API, чтобы не засорять лог запросами Prometheus
	api.Use(middleware.Logging(log))

	// Монитор бронирований
	var wg sync.WaitGroup
	monitorCtx, stopMonitor := context.WithCancel(ctx)
	defer stopMonitor()

	if cfg.Monitor.Enabled {
		locker, closeLocker, err := newLocker(ctx, a)
		if err != nil {
			return err
		}
		defer closeLocker()

		monitor := bookingMonitor.NewMonitor(
			bookingMonitor.Config{
				Interval:       cfg.MonitorInterval(),
				PendingTimeout: cfg.PendingTimeout(),
				BatchSize:      cfg.Monitor.BatchSize,
			},
			a.bookingRepository,
			slotBookingUseCase,
			a.txManager,
			locker,
			a.metrics,
			a.settings,
			log,
		)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := monitor.Run(monitorCtx); err != nil {
				log.Error("Booking monitor stopped with error: %v", err)
			}
		}()
		log.Info("Booking monitor started (interval=%s, pending_timeout=%s, batch=%d)",
			cfg.MonitorInterval(), cfg.PendingTimeout(), cfg.Monitor.BatchSize)
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Ожидаем сигнал завершения или падение сервера
	var runErr error
	select {
	case <-ctx.Done():
		log.Info("Shutting down server...")
	case err, ok := <-serverErr:
		if ok {
			log.Error("Server failed: %v", err)
			runErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Монитор завершает текущее бронирование и выходит
	stopMonitor()
	wg.Wait()

	log.Info("Server stopped gracefully")
	return runErr
}

// newLocker возвращает блокировку тика монитора
// Без Redis используется локальная заглушка (одна реплика)
func newLocker(ctx context.Context, a *app) (bookingMonitor.Locker, func(), error) {
	if !a.cfg.Redis.Enabled {
		a.log.Warn("Redis disabled: booking monitor runs without distributed lock")
		return lock.NoopLocker{}, func() {}, nil
	}

	client, err := lock.NewClient(ctx, a.cfg.Redis.Addr, a.cfg.Redis.Password, a.cfg.Redis.DB)
	if err != nil {
		return nil, nil, err
	}
	a.log.Info("Connected to Redis at %s", a.cfg.Redis.Addr)

	closeFn := func() {
		if err := client.Close(); err != nil {
			a.log.Error("Failed to close redis client: %v", err)
		}
	}
	return lock.NewRedisLocker(client, a.cfg.Redis.KeyPrefix), closeFn, nil
}
