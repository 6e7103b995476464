package date_override

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-QuestScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-QuestScheduleService/internal/service/schedule"
)

const (
	msgInvalidQuestID     = "некорректный ID квеста"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgQuestNotFound      = "квест не найден"
	msgOverrideNotFound   = "исключение на дату не найдено"
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

// HandlePut PUT /api/v1/quests/{questId}/overrides/{date}
func (h *Handler) HandlePut(w http.ResponseWriter, r *http.Request) {
	questID, err := handlers.ParseIDVar(r, "questId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidQuestID)
		return
	}
	date := mux.Vars(r)["date"]

	var req ConfigureDateOverrideRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("PUT /quests/{id}/overrides/{date} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.ConfigureDateOverride(r.Context(), req.ToServiceRequest(questID, date))
	if err != nil {
		h.respondServiceError(w, "PUT", questID, date, err)
		return
	}

	h.logger.Info("PUT /quests/{id}/overrides/{date} - Override saved: quest_id=%d, date=%s, closed=%t, slots=%d",
		questID, date, result.IsClosed, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleGet GET /api/v1/quests/{questId}/overrides/{date}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	questID, err := handlers.ParseIDVar(r, "questId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidQuestID)
		return
	}
	date := mux.Vars(r)["date"]

	result, err := h.service.GetDateOverride(r.Context(), questID, date)
	if err != nil {
		h.respondServiceError(w, "GET", questID, date, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleDelete DELETE /api/v1/quests/{questId}/overrides/{date}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	questID, err := handlers.ParseIDVar(r, "questId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidQuestID)
		return
	}
	date := mux.Vars(r)["date"]

	if err := h.service.DeleteDateOverride(r.Context(), questID, date); err != nil {
		h.respondServiceError(w, "DELETE", questID, date, err)
		return
	}

	h.logger.Info("DELETE /quests/{id}/overrides/{date} - Override deleted: quest_id=%d, date=%s", questID, date)
	handlers.RespondNoContent(w)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, method string, questID int64, date string, err error) {
	switch {
	case errors.Is(err, schedule.ErrQuestNotFound):
		h.logger.Warn("%s /quests/{id}/overrides/{date} - Quest not found: quest_id=%d", method, questID)
		handlers.RespondNotFound(w, msgQuestNotFound)

	case errors.Is(err, schedule.ErrOverrideNotFound):
		handlers.RespondNotFound(w, msgOverrideNotFound)

	case errors.Is(err, schedule.ErrInvalidInput):
		h.logger.Warn("%s /quests/{id}/overrides/{date} - Invalid input: quest_id=%d, date=%s, error=%v", method, questID, date, err)
		handlers.RespondBadRequest(w, err.Error())

	default:
		h.logger.Error("%s /quests/{id}/overrides/{date} - Failed: quest_id=%d, date=%s, error=%v", method, questID, date, err)
		handlers.RespondInternalError(w)
	}
}
