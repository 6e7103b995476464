package release_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-QuestScheduleService/internal/api/handlers"
	slotBooking "github.com/m04kA/SMC-QuestScheduleService/internal/usecase/slot_booking"
)

const (
	msgInvalidSlotID = "некорректный ID слота"
	msgSlotNotFound  = "слот не найден"
)

type Handler struct {
	useCase SlotBookingUseCase
	logger  Logger
}

func NewHandler(useCase SlotBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/slots/{slotId}/release
// Освобождение свободного слота не является ошибкой
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotID, err := handlers.ParseIDVar(r, "slotId")
	if err != nil {
		h.logger.Warn("POST /slots/{id}/release - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	if err := h.useCase.Release(r.Context(), slotID); err != nil {
		switch {
		case errors.Is(err, slotBooking.ErrSlotNotFound):
			h.logger.Warn("POST /slots/{id}/release - Slot not found: slot_id=%d", slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, slotBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidSlotID)

		default:
			h.logger.Error("POST /slots/{id}/release - Failed to release slot: slot_id=%d, error=%v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slots/{id}/release - Slot released successfully: slot_id=%d", slotID)
	handlers.RespondNoContent(w)
}
