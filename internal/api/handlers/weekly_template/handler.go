package weekly_template

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-QuestScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-QuestScheduleService/internal/service/schedule"
)

const (
	msgInvalidQuestID     = "некорректный ID квеста"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgQuestNotFound      = "квест не найден"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandlePut PUT /api/v1/quests/{questId}/weekly-template
// Шаблон заменяется целиком
func (h *Handler) HandlePut(w http.ResponseWriter, r *http.Request) {
	questID, err := handlers.ParseIDVar(r, "questId")
	if err != nil {
		h.logger.Warn("PUT /quests/{id}/weekly-template - Invalid quest ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuestID)
		return
	}

	var req ConfigureWeeklyTemplateRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("PUT /quests/{id}/weekly-template - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.ConfigureWeeklyTemplate(r.Context(), req.ToServiceRequest(questID))
	if err != nil {
		h.respondServiceError(w, "PUT", questID, err)
		return
	}

	h.logger.Info("PUT /quests/{id}/weekly-template - Template updated: quest_id=%d, entries=%d", questID, len(result.Entries))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleGet GET /api/v1/quests/{questId}/weekly-template
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	questID, err := handlers.ParseIDVar(r, "questId")
	if err != nil {
		h.logger.Warn("GET /quests/{id}/weekly-template - Invalid quest ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuestID)
		return
	}

	result, err := h.service.GetWeeklyTemplate(r.Context(), questID)
	if err != nil {
		h.respondServiceError(w, "GET", questID, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, method string, questID int64, err error) {
	switch {
	case errors.Is(err, schedule.ErrQuestNotFound):
		h.logger.Warn("%s /quests/{id}/weekly-template - Quest not found: quest_id=%d", method, questID)
		handlers.RespondNotFound(w, msgQuestNotFound)

	case errors.Is(err, schedule.ErrInvalidInput):
		h.logger.Warn("%s /quests/{id}/weekly-template - Invalid template: quest_id=%d, error=%v", method, questID, err)
		handlers.RespondBadRequest(w, err.Error())

	default:
		h.logger.Error("%s /quests/{id}/weekly-template - Failed: quest_id=%d, error=%v", method, questID, err)
		handlers.RespondInternalError(w)
	}
}
