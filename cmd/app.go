package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/m04kA/SMC-QuestScheduleService/internal/config"
	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-QuestScheduleService/internal/infra/storage/booking"
	calendarRepo "github.com/m04kA/SMC-QuestScheduleService/internal/infra/storage/calendar"
	pricingRuleRepo "github.com/m04kA/SMC-QuestScheduleService/internal/infra/storage/pricingrule"
	questRepo "github.com/m04kA/SMC-QuestScheduleService/internal/infra/storage/quest"
	scheduleRepo "github.com/m04kA/SMC-QuestScheduleService/internal/infra/storage/schedule"
	slotRepo "github.com/m04kA/SMC-QuestScheduleService/internal/infra/storage/slot"
	generateScheduleUC "github.com/m04kA/SMC-QuestScheduleService/internal/usecase/generate_schedule"
	"github.com/m04kA/SMC-QuestScheduleService/pkg/dbmetrics"
	"github.com/m04kA/SMC-QuestScheduleService/pkg/logger"
	"github.com/m04kA/SMC-QuestScheduleService/pkg/metrics"
	"github.com/m04kA/SMC-QuestScheduleService/pkg/txmanager"
)

// app общие зависимости всех команд
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	settings domain.EngineSettings
	metrics  *metrics.Metrics

	db        *sql.DB
	wrappedDB *dbmetrics.DB
	txManager *txmanager.TransactionManager
	stopCh    chan struct{}

	questRepository    *questRepo.Repository
	slotRepository     *slotRepo.Repository
	bookingRepository  *bookingRepo.Repository
	scheduleRepository *scheduleRepo.Repository
	ruleRepository     *pricingRuleRepo.Repository
	calendarRepository *calendarRepo.Repository
}

// newApp загружает конфигурацию, поднимает логгер, метрики и подключение к БД
func newApp(ctx context.Context, configPath string) (*app, error) {
	// 1. Конфигурация
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	settings, err := cfg.EngineSettings()
	if err != nil {
		return nil, err
	}

	// 2. Логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// 3. Метрики
	// При выключенных метриках счетчики пишутся в отдельный реестр, который нигде не публикуется
	var (
		metricsCollector *metrics.Metrics
		dbRecorder       dbmetrics.Recorder
	)
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		dbRecorder = metricsCollector
	} else {
		metricsCollector = metrics.NewWithRegistry(prometheus.NewRegistry(), cfg.Metrics.ServiceName)
	}

	// 4. База данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		_ = log.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		_ = log.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	stopCh := make(chan struct{})
	wrappedDB := dbmetrics.WrapWithDefault(db, dbRecorder, stopCh)

	// 5. Репозитории
	return &app{
		cfg:       cfg,
		log:       log,
		settings:  settings,
		metrics:   metricsCollector,
		db:        db,
		wrappedDB: wrappedDB,
		txManager: txmanager.NewTransactionManager(wrappedDB),
		stopCh:    stopCh,

		questRepository:    questRepo.NewRepository(wrappedDB),
		slotRepository:     slotRepo.NewRepository(wrappedDB),
		bookingRepository:  bookingRepo.NewRepository(wrappedDB),
		scheduleRepository: scheduleRepo.NewRepository(wrappedDB),
		ruleRepository:     pricingRuleRepo.NewRepository(wrappedDB),
		calendarRepository: calendarRepo.NewRepository(wrappedDB),
	}, nil
}

// generateScheduleUseCase собирает use case генерации расписания
func (a *app) generateScheduleUseCase() *generateScheduleUC.UseCase {
	return generateScheduleUC.NewUseCase(
		a.questRepository,
		a.scheduleRepository,
		a.ruleRepository,
		a.calendarRepository,
		a.slotRepository,
		a.txManager,
		a.metrics,
		a.settings,
		a.log,
	)
}

// Close останавливает сбор метрик и закрывает соединения
func (a *app) Close() {
	close(a.stopCh)
	if err := a.db.Close(); err != nil {
		a.log.Error("Failed to close database: %v", err)
	}
	_ = a.log.Close()
}
