package reserve_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-QuestScheduleService/internal/api/handlers"
	slotBooking "github.com/m04kA/SMC-QuestScheduleService/internal/usecase/slot_booking"
)

const (
	msgInvalidSlotID      = "некорректный ID слота"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgSlotNotFound       = "слот не найден"
	msgBookingNotFound    = "бронирование не найдено"
	msgSlotAlreadyBooked  = "слот уже занят"
	msgBookingHasSlot     = "бронирование уже занимает другой слот"
	msgTooLateToBook      = "слишком поздно для бронирования этого слота"
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

// Handle POST /api/v1/slots/{slotId}/reserve
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotID, err := handlers.ParseIDVar(r, "slotId")
	if err != nil {
		h.logger.Warn("POST /slots/{id}/reserve - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	var req ReserveSlotRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("POST /slots/{id}/reserve - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.useCase.Reserve(r.Context(), slotID, req.BookingID); err != nil {
		switch {
		case errors.Is(err, slotBooking.ErrSlotNotFound):
			h.logger.Warn("POST /slots/{id}/reserve - Slot not found: slot_id=%d", slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, slotBooking.ErrBookingNotFound):
			h.logger.Warn("POST /slots/{id}/reserve - Booking not found: booking_id=%d", req.BookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, slotBooking.ErrBookingHasSlot):
			h.logger.Warn("POST /slots/{id}/reserve - Booking already holds a slot: slot_id=%d, booking_id=%d", slotID, req.BookingID)
			handlers.RespondConflict(w, msgBookingHasSlot)

		case errors.Is(err, slotBooking.ErrConflict):
			h.logger.Warn("POST /slots/{id}/reserve - Slot already booked: slot_id=%d, booking_id=%d", slotID, req.BookingID)
			handlers.RespondConflict(w, msgSlotAlreadyBooked)

		case errors.Is(err, slotBooking.ErrTooLate):
			h.logger.Warn("POST /slots/{id}/reserve - Too late to book: slot_id=%d", slotID)
			handlers.RespondUnprocessable(w, msgTooLateToBook)

		case errors.Is(err, slotBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /slots/{id}/reserve - Failed to reserve slot: slot_id=%d, booking_id=%d, error=%v",
				slotID, req.BookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slots/{id}/reserve - Slot reserved successfully: slot_id=%d, booking_id=%d", slotID, req.BookingID)
	handlers.RespondJSON(w, http.StatusOK, ReserveSlotResponse{SlotID: slotID, BookingID: req.BookingID})
}
