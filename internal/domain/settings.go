package domain

import "time"

// EngineSettings настройки движка расписания
// Передаются явно при создании use case, а не читаются из глобального состояния
type EngineSettings struct {
	Location         *time.Location
	BookingCutoff    time.Duration
	BookingDaysAhead int
	SessionDuration  time.Duration
}

// DefaultEngineSettings настройки по умолчанию (часовой пояс UTC, если зона не загружена)
func DefaultEngineSettings() EngineSettings {
	loc, err := time.LoadLocation(DefaultTimeZone)
	if err != nil {
		loc = time.UTC
	}
	return EngineSettings{
		Location:         loc,
		BookingCutoff:    DefaultBookingCutoffMinutes * time.Minute,
		BookingDaysAhead: DefaultBookingDaysAhead,
		SessionDuration:  DefaultSessionDurationMinutes * time.Minute,
	}
}

// Today возвращает текущую дату площадки
func (s EngineSettings) Today(now time.Time) time.Time {
	return DateOnly(now.In(s.location()))
}

// DefaultWindow возвращает окно генерации по умолчанию: сегодня .. сегодня + BookingDaysAhead
func (s EngineSettings) DefaultWindow(now time.Time) (time.Time, time.Time) {
	today := s.Today(now)
	return today, today.AddDate(0, 0, s.BookingDaysAhead)
}

func (s EngineSettings) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

// Loc возвращает часовой пояс площадки
func (s EngineSettings) Loc() *time.Location {
	return s.location()
}

// IsWithinCutoff возвращает true, если до начала слота осталось меньше cutoff
// Прошедшие слоты также считаются попавшими в окно отсечки
func IsWithinCutoff(slotStart, now time.Time, cutoff time.Duration) bool {
	return slotStart.Sub(now) < cutoff
}
