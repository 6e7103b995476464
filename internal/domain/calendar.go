package domain

import "time"

// CalendarDay запись производственного календаря
type CalendarDay struct {
	Date      time.Time
	IsHoliday bool
	Title     string
	Source    string // manual | import
}

// ProductionCalendar классификация дат на праздничные/рабочие/не заданные
// Снимок календаря за диапазон дат, загруженный одним запросом
type ProductionCalendar struct {
	days map[string]CalendarDay
}

// NewProductionCalendar строит календарь из списка дней
func NewProductionCalendar(days []*CalendarDay) *ProductionCalendar {
	c := &ProductionCalendar{days: make(map[string]CalendarDay, len(days))}
	for _, d := range days {
		if d == nil {
			continue
		}
		c.days[FormatDate(d.Date)] = *d
	}
	return c
}

// IsHoliday возвращает true, если дата помечена как праздничная
func (c *ProductionCalendar) IsHoliday(date time.Time) bool {
	if c == nil {
		return false
	}
	day, ok := c.days[FormatDate(date)]
	return ok && day.IsHoliday
}

// Lookup возвращает запись календаря; ok = false, если дата не размечена
func (c *ProductionCalendar) Lookup(date time.Time) (CalendarDay, bool) {
	if c == nil {
		return CalendarDay{}, false
	}
	day, ok := c.days[FormatDate(date)]
	return day, ok
}
