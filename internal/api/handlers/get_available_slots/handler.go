package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-QuestScheduleService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-QuestScheduleService/internal/usecase/get_available_slots"
)

const (
	msgInvalidQuestID = "некорректный ID квеста"
	msgInvalidDate    = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRange   = "некорректный диапазон дат"
	msgQuestNotFound  = "квест не найден"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/quests/{questId}/available-slots
// Query params: from, to (optional, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	questID, err := handlers.ParseIDVar(r, "questId")
	if err != nil {
		h.logger.Warn("GET /quests/{id}/available-slots - Invalid quest ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuestID)
		return
	}

	from, err := handlers.ParseDateQuery(r, "from")
	if err != nil {
		h.logger.Warn("GET /quests/{id}/available-slots - %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	to, err := handlers.ParseDateQuery(r, "to")
	if err != nil {
		h.logger.Warn("GET /quests/{id}/available-slots - %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		QuestID: questID,
		From:    from,
		To:      to,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrQuestNotFound):
			h.logger.Warn("GET /quests/{id}/available-slots - Quest not found: quest_id=%d", questID)
			handlers.RespondNotFound(w, msgQuestNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidRange), errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /quests/{id}/available-slots - Invalid range: quest_id=%d, error=%v", questID, err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		default:
			h.logger.Error("GET /quests/{id}/available-slots - Failed to get slots: quest_id=%d, error=%v", questID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /quests/{id}/available-slots - Slots retrieved successfully: quest_id=%d, slots_count=%d",
		questID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
