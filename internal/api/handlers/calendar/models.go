package calendar

import "github.com/m04kA/SMC-QuestScheduleService/internal/service/calendar/models"

// UpsertDaysRequest HTTP request model
type UpsertDaysRequest struct {
	Days []Day `json:"days" validate:"required,min=1,max=366,dive"`
}

// Day день производственного календаря
type Day struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	IsHoliday bool   `json:"isHoliday"`
	Title     string `json:"title,omitempty" validate:"max=255"`
}

// HolidayResponse ответ на проверку даты
type HolidayResponse struct {
	Date      string `json:"date"`
	IsHoliday bool   `json:"isHoliday"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpsertDaysRequest) ToServiceRequest() *models.UpsertDaysRequest {
	days := make([]models.DayEntry, 0, len(r.Days))
	for _, d := range r.Days {
		days = append(days, models.DayEntry{
			Date:      d.Date,
			IsHoliday: d.IsHoliday,
			Title:     d.Title,
		})
	}
	return &models.UpsertDaysRequest{Days: days}
}
