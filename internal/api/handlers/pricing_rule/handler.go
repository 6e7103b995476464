package pricing_rule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-QuestScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-QuestScheduleService/internal/service/pricing"
	"github.com/m04kA/SMC-QuestScheduleService/internal/service/pricing/models"
)

const (
	msgInvalidRuleID      = "некорректный ID правила"
	msgInvalidQuestID     = "некорректный ID квеста"
	msgInvalidActive      = "некорректное значение параметра active"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgRuleNotFound       = "правило не найдено"
	msgQuestNotFound      = "квест не найден"
)

type Handler struct {
	service PricingService
	logger  Logger
}

func NewHandler(service PricingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleCreate POST /api/v1/pricing-rules
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req UpsertRuleRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("POST /pricing-rules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpsertPricingRule(r.Context(), req.ToServiceRequest(0))
	if err != nil {
		h.respondServiceError(w, "POST", 0, err)
		return
	}

	h.logger.Info("POST /pricing-rules - Rule created: rule_id=%d, quests=%v", result.ID, result.QuestIDs)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// HandleUpdate PUT /api/v1/pricing-rules/{ruleId}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ruleID, err := handlers.ParseIDVar(r, "ruleId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidRuleID)
		return
	}

	var req UpsertRuleRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("PUT /pricing-rules/{id} - Invalid request body: rule_id=%d, error=%v", ruleID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpsertPricingRule(r.Context(), req.ToServiceRequest(ruleID))
	if err != nil {
		h.respondServiceError(w, "PUT", ruleID, err)
		return
	}

	h.logger.Info("PUT /pricing-rules/{id} - Rule updated: rule_id=%d", ruleID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleGet GET /api/v1/pricing-rules/{ruleId}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ruleID, err := handlers.ParseIDVar(r, "ruleId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidRuleID)
		return
	}

	result, err := h.service.GetByID(r.Context(), ruleID)
	if err != nil {
		h.respondServiceError(w, "GET", ruleID, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleList GET /api/v1/pricing-rules
// Query params: questId (optional), active (optional, bool)
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	req := &models.ListRulesRequest{}

	if raw := r.URL.Query().Get("questId"); raw != "" {
		questID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || questID <= 0 {
			handlers.RespondBadRequest(w, msgInvalidQuestID)
			return
		}
		req.QuestID = &questID
	}
	if raw := r.URL.Query().Get("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidActive)
			return
		}
		req.OnlyActive = active
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("GET /pricing-rules - Failed to list rules: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleDelete DELETE /api/v1/pricing-rules/{ruleId}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ruleID, err := handlers.ParseIDVar(r, "ruleId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidRuleID)
		return
	}

	if err := h.service.Delete(r.Context(), ruleID); err != nil {
		h.respondServiceError(w, "DELETE", ruleID, err)
		return
	}

	h.logger.Info("DELETE /pricing-rules/{id} - Rule deleted: rule_id=%d", ruleID)
	handlers.RespondNoContent(w)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, method string, ruleID int64, err error) {
	switch {
	case errors.Is(err, pricing.ErrRuleNotFound):
		h.logger.Warn("%s /pricing-rules - Rule not found: rule_id=%d", method, ruleID)
		handlers.RespondNotFound(w, msgRuleNotFound)

	case errors.Is(err, pricing.ErrQuestNotFound):
		h.logger.Warn("%s /pricing-rules - Quest not found: rule_id=%d, error=%v", method, ruleID, err)
		handlers.RespondNotFound(w, msgQuestNotFound)

	case errors.Is(err, pricing.ErrInvalidInput):
		h.logger.Warn("%s /pricing-rules - Invalid rule: rule_id=%d, error=%v", method, ruleID, err)
		handlers.RespondBadRequest(w, err.Error())

	default:
		h.logger.Error("%s /pricing-rules - Failed: rule_id=%d, error=%v", method, ruleID, err)
		handlers.RespondInternalError(w)
	}
}
