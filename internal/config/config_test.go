package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "localhost"
dbname = "quests"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "Europe/Moscow", cfg.Schedule.TimeZone)
	assert.Equal(t, 60, cfg.Schedule.BookingCutoffMinutes)
	assert.Equal(t, 30, cfg.Schedule.BookingDaysAhead)
	assert.Equal(t, time.Minute, cfg.MonitorInterval())
	assert.Equal(t, 30*time.Minute, cfg.PendingTimeout())
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_EngineSettings(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "db"
dbname = "quests"

[schedule]
time_zone = "Asia/Yekaterinburg"
booking_cutoff_minutes = 90
booking_days_ahead = 14
session_duration_minutes = 75
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	settings, err := cfg.EngineSettings()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Yekaterinburg", settings.Location.String())
	assert.Equal(t, 90*time.Minute, settings.BookingCutoff)
	assert.Equal(t, 14, settings.BookingDaysAhead)
	assert.Equal(t, 75*time.Minute, settings.SessionDuration)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown time zone", "[database]\nhost=\"db\"\ndbname=\"q\"\n[schedule]\ntime_zone=\"Mars/Olympus\"\n"},
		{"missing database", "[server]\nhttp_port=8080\n"},
		{"negative cutoff", "[database]\nhost=\"db\"\ndbname=\"q\"\n[schedule]\nbooking_cutoff_minutes=-5\n"},
		{"horizon too long", "[database]\nhost=\"db\"\ndbname=\"q\"\n[schedule]\nbooking_days_ahead=1000\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "quests", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=quests sslmode=disable", d.DSN())
}
