package generate_schedule

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-QuestScheduleService/internal/api/handlers"
	generateSchedule "github.com/m04kA/SMC-QuestScheduleService/internal/usecase/generate_schedule"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidRange       = "некорректный диапазон дат"
	msgQuestNotFound      = "квест не найден"
)

type Handler struct {
	useCase GenerateScheduleUseCase
	logger  Logger
}

func NewHandler(useCase GenerateScheduleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/schedule/generate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req GenerateScheduleRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("POST /schedule/generate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, generateSchedule.ErrInvalidRange):
			h.logger.Warn("POST /schedule/generate - Invalid range: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, generateSchedule.ErrQuestNotFound):
			h.logger.Warn("POST /schedule/generate - Quest not found: quest_id=%v", req.QuestID)
			handlers.RespondNotFound(w, msgQuestNotFound)

		default:
			h.logger.Error("POST /schedule/generate - Failed to generate schedule: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /schedule/generate - Schedule generated: quests=%d, created=%d", len(result.Quests), result.Total.Created)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
