package calendar

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-QuestScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
	calendarService "github.com/m04kA/SMC-QuestScheduleService/internal/service/calendar"
)

// maxImportSize ограничение размера CSV файла
const maxImportSize = 10 << 20

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRange       = "некорректный диапазон дат"
	msgDayNotFound        = "дата отсутствует в календаре"
)

type Handler struct {
	service CalendarService
	logger  Logger
}

func NewHandler(service CalendarService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleList GET /api/v1/calendar?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	result, err := h.service.ListRange(r.Context(), from, to)
	if err != nil {
		h.respondServiceError(w, "GET /calendar", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleUpsert PUT /api/v1/calendar
func (h *Handler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	var req UpsertDaysRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("PUT /calendar - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Upsert(r.Context(), req.ToServiceRequest())
	if err != nil {
		h.respondServiceError(w, "PUT /calendar", err)
		return
	}

	h.logger.Info("PUT /calendar - Days saved: count=%d", result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleDelete DELETE /api/v1/calendar/{date}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]

	if err := h.service.Delete(r.Context(), date); err != nil {
		h.respondServiceError(w, "DELETE /calendar/{date}", err)
		return
	}

	h.logger.Info("DELETE /calendar/{date} - Day deleted: date=%s", date)
	handlers.RespondNoContent(w)
}

// HandleIsHoliday GET /api/v1/calendar/{date}/holiday
// Дата без записи в календаре считается рабочей
func (h *Handler) HandleIsHoliday(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["date"]
	date, err := domain.ParseDate(raw)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	holiday, err := h.service.IsHoliday(r.Context(), date)
	if err != nil {
		h.respondServiceError(w, "GET /calendar/{date}/holiday", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, HolidayResponse{Date: domain.FormatDate(date), IsHoliday: holiday})
}

// HandleImport POST /api/v1/calendar/import
// Тело запроса: CSV с колонками date,is_holiday,title
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxImportSize)
	defer body.Close()

	result, err := h.service.ImportCSV(r.Context(), body)
	if err != nil {
		h.respondServiceError(w, "POST /calendar/import", err)
		return
	}

	h.logger.Info("POST /calendar/import - Calendar imported: imported=%d, holidays=%d", result.Imported, result.Holidays)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, calendarService.ErrDayNotFound):
		handlers.RespondNotFound(w, msgDayNotFound)

	case errors.Is(err, calendarService.ErrInvalidRange):
		h.logger.Warn("%s - Invalid range: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRange)

	case errors.Is(err, calendarService.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, err.Error())

	default:
		h.logger.Error("%s - Failed: %v", route, err)
		handlers.RespondInternalError(w)
	}
}
