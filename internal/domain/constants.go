package domain

// Значения настроек движка по умолчанию
const (
	DefaultTimeZone               = "Europe/Moscow"
	DefaultBookingCutoffMinutes   = 60
	DefaultBookingDaysAhead       = 30
	DefaultSessionDurationMinutes = 60
	DefaultPendingTimeoutMinutes  = 30
)

// Ограничения бизнес-валидации
const (
	MaxGenerationDays      = 366
	MaxPrice               = 10_000_000
	MaxIntervalMinutes     = 24 * 60
	MaxSlotsPerDay         = 96
	MaxCalendarTitleLength = 200
)

// Форматы даты и времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Источники записей производственного календаря
const (
	CalendarSourceManual = "manual"
	CalendarSourceImport = "import"
)
