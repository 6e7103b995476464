package models

import "github.com/m04kA/SMC-QuestScheduleService/internal/domain"

// DayEntry запись календаря (дата в формате YYYY-MM-DD)
type DayEntry struct {
	Date      string `json:"date"`
	IsHoliday bool   `json:"isHoliday"`
	Title     string `json:"title,omitempty"`
	Source    string `json:"source,omitempty"`
}

// UpsertDaysRequest запрос на ручную разметку дат
type UpsertDaysRequest struct {
	Days []DayEntry `json:"days"`
}

// DaysResponse записи календаря за диапазон
type DaysResponse struct {
	Days  []DayEntry `json:"days"`
	Total int        `json:"total"`
}

// ImportResult результат импорта CSV
type ImportResult struct {
	Imported int `json:"imported"`
	Holidays int `json:"holidays"`
}

// FromDomainDays конвертирует записи календаря в ответ
func FromDomainDays(days []*domain.CalendarDay) *DaysResponse {
	resp := &DaysResponse{
		Days:  make([]DayEntry, 0, len(days)),
		Total: len(days),
	}
	for _, d := range days {
		resp.Days = append(resp.Days, DayEntry{
			Date:      domain.FormatDate(d.Date),
			IsHoliday: d.IsHoliday,
			Title:     d.Title,
			Source:    d.Source,
		})
	}
	return resp
}
