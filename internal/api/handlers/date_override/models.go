package date_override

import "github.com/m04kA/SMC-QuestScheduleService/internal/service/schedule/models"

// ConfigureDateOverrideRequest HTTP request model
type ConfigureDateOverrideRequest struct {
	IsClosed bool           `json:"isClosed"`
	Slots    []OverrideSlot `json:"slots" validate:"max=96,dive"`
}

// OverrideSlot слот исключения
type OverrideSlot struct {
	StartTime string `json:"startTime" validate:"required,datetime=15:04"`
	Price     int64  `json:"price" validate:"gte=0"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *ConfigureDateOverrideRequest) ToServiceRequest(questID int64, date string) *models.ConfigureDateOverrideRequest {
	slots := make([]models.OverrideSlotEntry, 0, len(r.Slots))
	for _, s := range r.Slots {
		slots = append(slots, models.OverrideSlotEntry{StartTime: s.StartTime, Price: s.Price})
	}
	return &models.ConfigureDateOverrideRequest{
		QuestID:  questID,
		Date:     date,
		IsClosed: r.IsClosed,
		Slots:    slots,
	}
}
