package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-QuestScheduleService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-QuestScheduleService/pkg/logger"
	"github.com/m04kA/SMC-QuestScheduleService/pkg/types"
)

type fakeUseCase struct {
	resp *getAvailableSlots.Response
	err  error
	req  *getAvailableSlots.Request
}

func (f *fakeUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func serve(uc *fakeUseCase, path string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/quests/{questId}/available-slots", NewHandler(uc, logger.NewNop()).Handle).Methods(http.MethodGet)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHandle_Success(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	uc := &fakeUseCase{resp: &getAvailableSlots.Response{
		QuestID: 3,
		From:    day,
		To:      day.AddDate(0, 0, 1),
		Slots: []getAvailableSlots.Slot{
			{ID: 11, Date: day, StartTime: types.MustTimeString("18:30"), Price: 4500},
		},
	}}

	w := serve(uc, "/api/v1/quests/3/available-slots?from=2024-03-01&to=2024-03-02")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"questId": 3,
		"from": "2024-03-01",
		"to": "2024-03-02",
		"slots": [{"id": 11, "date": "2024-03-01", "startTime": "18:30", "price": 4500}]
	}`, w.Body.String())

	require.NotNil(t, uc.req)
	assert.Equal(t, int64(3), uc.req.QuestID)
	require.NotNil(t, uc.req.From)
	require.NotNil(t, uc.req.To)
	assert.Equal(t, "2024-03-01", domain.FormatDate(*uc.req.From))
	assert.Equal(t, "2024-03-02", domain.FormatDate(*uc.req.To))
}

func TestHandle_DefaultWindow(t *testing.T) {
	uc := &fakeUseCase{resp: &getAvailableSlots.Response{QuestID: 3}}

	w := serve(uc, "/api/v1/quests/3/available-slots")

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, uc.req)
	assert.Nil(t, uc.req.From)
	assert.Nil(t, uc.req.To)
}

func TestHandle_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"bad quest id", "/api/v1/quests/abc/available-slots"},
		{"bad from", "/api/v1/quests/3/available-slots?from=01.03.2024"},
		{"bad to", "/api/v1/quests/3/available-slots?to=2024-13-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{}
			w := serve(uc, tt.path)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Nil(t, uc.req)
		})
	}
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{getAvailableSlots.ErrQuestNotFound, http.StatusNotFound},
		{getAvailableSlots.ErrInvalidRange, http.StatusBadRequest},
		{fmt.Errorf("%w: 400 days exceeds limit of 366", getAvailableSlots.ErrInvalidRange), http.StatusBadRequest},
		{getAvailableSlots.ErrInvalidInput, http.StatusBadRequest},
		{fmt.Errorf("%w: failed to list slots: timeout", getAvailableSlots.ErrInternal), http.StatusInternalServerError},
		{errors.New("unexpected"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := serve(&fakeUseCase{err: tt.err}, "/api/v1/quests/3/available-slots")
			assert.Equal(t, tt.code, w.Code)
		})
	}
}
