package models

import (
	"time"

	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
	"github.com/m04kA/SMC-QuestScheduleService/pkg/types"
)

// Request модели

// WeeklyTemplateEntry строка еженедельного шаблона
// Weekday: 0 = воскресенье ... 6 = суббота, StartTime в формате HH:MM
type WeeklyTemplateEntry struct {
	Weekday      int    `json:"weekday"`
	StartTime    string `json:"startTime"`
	Price        int64  `json:"price"`
	HolidayPrice *int64 `json:"holidayPrice,omitempty"`
}

// ConfigureWeeklyTemplateRequest запрос на замену шаблона квеста
type ConfigureWeeklyTemplateRequest struct {
	QuestID int64                 `json:"-"`
	Entries []WeeklyTemplateEntry `json:"entries"`
}

// OverrideSlotEntry слот исключения
type OverrideSlotEntry struct {
	StartTime string `json:"startTime"`
	Price     int64  `json:"price"`
}

// ConfigureDateOverrideRequest запрос на создание/замену исключения
type ConfigureDateOverrideRequest struct {
	QuestID  int64               `json:"-"`
	Date     string              `json:"date"` // YYYY-MM-DD
	IsClosed bool                `json:"isClosed"`
	Slots    []OverrideSlotEntry `json:"slots"`
}

// Response модели

// WeeklyTemplateResponse шаблон квеста
type WeeklyTemplateResponse struct {
	QuestID int64                 `json:"questId"`
	Entries []WeeklyTemplateEntry `json:"entries"`
}

// DateOverrideResponse исключение на дату
type DateOverrideResponse struct {
	ID        int64               `json:"id"`
	QuestID   int64               `json:"questId"`
	Date      string              `json:"date"`
	IsClosed  bool                `json:"isClosed"`
	Slots     []OverrideSlotEntry `json:"slots"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// FromDomainTemplate конвертирует шаблон в ответ
func FromDomainTemplate(questID int64, entries []*domain.WeeklySlotTemplate) *WeeklyTemplateResponse {
	resp := &WeeklyTemplateResponse{
		QuestID: questID,
		Entries: make([]WeeklyTemplateEntry, 0, len(entries)),
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, WeeklyTemplateEntry{
			Weekday:      int(e.Weekday),
			StartTime:    e.StartTime.String(),
			Price:        e.Price,
			HolidayPrice: e.HolidayPrice,
		})
	}
	return resp
}

// FromDomainOverride конвертирует исключение в ответ
func FromDomainOverride(o *domain.DateOverride) *DateOverrideResponse {
	resp := &DateOverrideResponse{
		ID:        o.ID,
		QuestID:   o.QuestID,
		Date:      domain.FormatDate(o.Date),
		IsClosed:  o.IsClosed,
		Slots:     make([]OverrideSlotEntry, 0, len(o.Slots)),
		UpdatedAt: o.UpdatedAt,
	}
	for _, s := range o.Slots {
		resp.Slots = append(resp.Slots, OverrideSlotEntry{StartTime: s.StartTime.String(), Price: s.Price})
	}
	return resp
}

// ToDomainTemplate конвертирует запрос в доменные строки шаблона
// Время должно быть предварительно провалидировано
func (r *ConfigureWeeklyTemplateRequest) ToDomainTemplate() []domain.WeeklySlotTemplate {
	entries := make([]domain.WeeklySlotTemplate, 0, len(r.Entries))
	for _, e := range r.Entries {
		entries = append(entries, domain.WeeklySlotTemplate{
			QuestID:      r.QuestID,
			Weekday:      time.Weekday(e.Weekday),
			StartTime:    types.TimeString(e.StartTime),
			Price:        e.Price,
			HolidayPrice: e.HolidayPrice,
		})
	}
	return entries
}
