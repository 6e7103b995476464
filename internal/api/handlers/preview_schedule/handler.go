package preview_schedule

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-QuestScheduleService/internal/api/handlers"
	generateSchedule "github.com/m04kA/SMC-QuestScheduleService/internal/usecase/generate_schedule"
)

const (
	msgInvalidQuestID = "некорректный ID квеста"
	msgInvalidDate    = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRange   = "некорректный диапазон дат"
	msgQuestNotFound  = "квест не найден"
)

type Handler struct {
	useCase PreviewScheduleUseCase
	logger  Logger
}

func NewHandler(useCase PreviewScheduleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/quests/{questId}/schedule/preview
// Query params: from, to (optional, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	questID, err := handlers.ParseIDVar(r, "questId")
	if err != nil {
		h.logger.Warn("GET /quests/{id}/schedule/preview - Invalid quest ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuestID)
		return
	}

	from, err := handlers.ParseDateQuery(r, "from")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	to, err := handlers.ParseDateQuery(r, "to")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Preview(r.Context(), &generateSchedule.Request{QuestID: &questID, From: from, To: to})
	if err != nil {
		switch {
		case errors.Is(err, generateSchedule.ErrInvalidRange):
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, generateSchedule.ErrQuestNotFound):
			h.logger.Warn("GET /quests/{id}/schedule/preview - Quest not found: quest_id=%d", questID)
			handlers.RespondNotFound(w, msgQuestNotFound)

		default:
			h.logger.Error("GET /quests/{id}/schedule/preview - Failed to build preview: quest_id=%d, error=%v", questID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
