package weekly_template

import "github.com/m04kA/SMC-QuestScheduleService/internal/service/schedule/models"

// ConfigureWeeklyTemplateRequest HTTP request model
type ConfigureWeeklyTemplateRequest struct {
	Entries []TemplateEntry `json:"entries" validate:"max=700,dive"`
}

// TemplateEntry строка шаблона
type TemplateEntry struct {
	Weekday      *int   `json:"weekday" validate:"required,min=0,max=6"`
	StartTime    string `json:"startTime" validate:"required,datetime=15:04"`
	Price        int64  `json:"price" validate:"gte=0"`
	HolidayPrice *int64 `json:"holidayPrice,omitempty" validate:"omitempty,gte=0"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *ConfigureWeeklyTemplateRequest) ToServiceRequest(questID int64) *models.ConfigureWeeklyTemplateRequest {
	entries := make([]models.WeeklyTemplateEntry, 0, len(r.Entries))
	for _, e := range r.Entries {
		entries = append(entries, models.WeeklyTemplateEntry{
			Weekday:      *e.Weekday,
			StartTime:    e.StartTime,
			Price:        e.Price,
			HolidayPrice: e.HolidayPrice,
		})
	}
	return &models.ConfigureWeeklyTemplateRequest{QuestID: questID, Entries: entries}
}
