package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
)

// ErrInvalidConfig возвращается при некорректных значениях конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Schedule ScheduleConfig `toml:"schedule"`
	Monitor  MonitorConfig  `toml:"monitor"`
	Redis    RedisConfig    `toml:"redis"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// ScheduleConfig настройки движка расписания
type ScheduleConfig struct {
	TimeZone               string `toml:"time_zone"`
	BookingCutoffMinutes   int    `toml:"booking_cutoff_minutes"`
	BookingDaysAhead       int    `toml:"booking_days_ahead"`
	SessionDurationMinutes int    `toml:"session_duration_minutes"`
}

// MonitorConfig настройки монитора бронирований
type MonitorConfig struct {
	Enabled               bool `toml:"enabled"`
	IntervalSeconds       int  `toml:"interval_seconds"`
	PendingTimeoutMinutes int  `toml:"pending_timeout_minutes"`
	BatchSize             int  `toml:"batch_size"`
}

// RedisConfig настройки Redis (распределенная блокировка монитора)
type RedisConfig struct {
	Enabled   bool   `toml:"enabled"`
	Addr      string `toml:"addr"`
	Password  string `toml:"password"`
	DB        int    `toml:"db"`
	KeyPrefix string `toml:"key_prefix"`
}

// Load читает конфигурацию из TOML файла, применяет значения по умолчанию и валидирует её
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.HTTPPort, 8080)
	setDefault(&c.Server.ReadTimeout, 15)
	setDefault(&c.Server.WriteTimeout, 15)
	setDefault(&c.Server.IdleTimeout, 60)
	setDefault(&c.Server.ShutdownTimeout, 30)

	setDefault(&c.Database.Port, 5432)
	setDefault(&c.Database.MaxOpenConns, 25)
	setDefault(&c.Database.MaxIdleConns, 5)
	setDefault(&c.Database.ConnMaxLifetime, 300)
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "quest_schedule_service"
	}

	if c.Schedule.TimeZone == "" {
		c.Schedule.TimeZone = domain.DefaultTimeZone
	}
	setDefault(&c.Schedule.BookingCutoffMinutes, domain.DefaultBookingCutoffMinutes)
	setDefault(&c.Schedule.BookingDaysAhead, domain.DefaultBookingDaysAhead)
	setDefault(&c.Schedule.SessionDurationMinutes, domain.DefaultSessionDurationMinutes)

	setDefault(&c.Monitor.IntervalSeconds, 60)
	setDefault(&c.Monitor.PendingTimeoutMinutes, domain.DefaultPendingTimeoutMinutes)
	setDefault(&c.Monitor.BatchSize, 100)

	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "questsched:lock:"
	}
}

// setDefault устанавливает значение, если оно не задано
// Отрицательные значения не трогаются и отклоняются в Validate
func setDefault(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be between 1 and 65535", ErrInvalidConfig)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}

	if _, err := time.LoadLocation(c.Schedule.TimeZone); err != nil {
		return fmt.Errorf("%w: unknown schedule.time_zone %q: %v", ErrInvalidConfig, c.Schedule.TimeZone, err)
	}
	if c.Schedule.BookingCutoffMinutes < 0 {
		return fmt.Errorf("%w: schedule.booking_cutoff_minutes must not be negative", ErrInvalidConfig)
	}
	if c.Schedule.BookingDaysAhead < 0 || c.Schedule.BookingDaysAhead > domain.MaxGenerationDays {
		return fmt.Errorf("%w: schedule.booking_days_ahead must be between 0 and %d", ErrInvalidConfig, domain.MaxGenerationDays)
	}
	if c.Schedule.SessionDurationMinutes < 0 {
		return fmt.Errorf("%w: schedule.session_duration_minutes must not be negative", ErrInvalidConfig)
	}

	if c.Monitor.IntervalSeconds < 0 || c.Monitor.PendingTimeoutMinutes < 0 || c.Monitor.BatchSize < 0 {
		return fmt.Errorf("%w: monitor values must not be negative", ErrInvalidConfig)
	}

	return nil
}

// EngineSettings собирает настройки движка расписания
// Часовой пояс уже проверен в Validate
func (c *Config) EngineSettings() (domain.EngineSettings, error) {
	loc, err := time.LoadLocation(c.Schedule.TimeZone)
	if err != nil {
		return domain.EngineSettings{}, fmt.Errorf("%w: unknown schedule.time_zone %q: %v", ErrInvalidConfig, c.Schedule.TimeZone, err)
	}

	return domain.EngineSettings{
		Location:         loc,
		BookingCutoff:    time.Duration(c.Schedule.BookingCutoffMinutes) * time.Minute,
		BookingDaysAhead: c.Schedule.BookingDaysAhead,
		SessionDuration:  time.Duration(c.Schedule.SessionDurationMinutes) * time.Minute,
	}, nil
}

// MonitorInterval период тика монитора
func (c *Config) MonitorInterval() time.Duration {
	return time.Duration(c.Monitor.IntervalSeconds) * time.Second
}

// PendingTimeout время жизни неподтвержденного бронирования
func (c *Config) PendingTimeout() time.Duration {
	return time.Duration(c.Monitor.PendingTimeoutMinutes) * time.Minute
}
