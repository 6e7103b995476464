package get_available_slots

import (
	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-QuestScheduleService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	QuestID int64           `json:"questId"`
	From    string          `json:"from"`
	To      string          `json:"to"`
	Slots   []AvailableSlot `json:"slots"`
}

// AvailableSlot свободный слот
type AvailableSlot struct {
	ID        int64  `json:"id"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	Price     int64  `json:"price"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			ID:        slot.ID,
			Date:      domain.FormatDate(slot.Date),
			StartTime: slot.StartTime.String(),
			Price:     slot.Price,
		}
	}

	return &AvailableSlotsResponse{
		QuestID: resp.QuestID,
		From:    domain.FormatDate(resp.From),
		To:      domain.FormatDate(resp.To),
		Slots:   slots,
	}
}
