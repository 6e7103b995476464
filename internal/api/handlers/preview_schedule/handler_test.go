package preview_schedule

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
	generateSchedule "github.com/m04kA/SMC-QuestScheduleService/internal/usecase/generate_schedule"
	"github.com/m04kA/SMC-QuestScheduleService/pkg/logger"
	"github.com/m04kA/SMC-QuestScheduleService/pkg/types"
)

type fakeUseCase struct {
	resp *generateSchedule.PreviewResponse
	err  error
	req  *generateSchedule.Request
}

func (f *fakeUseCase) Preview(_ context.Context, req *generateSchedule.Request) (*generateSchedule.PreviewResponse, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func serve(uc *fakeUseCase, path string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/quests/{questId}/schedule/preview", NewHandler(uc, logger.NewNop()).Handle).Methods(http.MethodGet)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHandle_Success(t *testing.T) {
	day := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
	ruleID := int64(4)
	uc := &fakeUseCase{resp: &generateSchedule.PreviewResponse{
		QuestID: 2,
		From:    day,
		To:      day,
		Cells: []domain.GeneratedSlot{
			{QuestID: 2, Date: day, StartTime: types.MustTimeString("12:00"), Price: 5000, Source: domain.PriceSourceHoliday},
			{QuestID: 2, Date: day, StartTime: types.MustTimeString("13:30"), Price: 0, Source: domain.PriceSourceRule, Blocked: true, RuleID: &ruleID},
		},
	}}

	w := serve(uc, "/api/v1/quests/2/schedule/preview?from=2024-03-08&to=2024-03-08")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"questId": 2,
		"from": "2024-03-08",
		"to": "2024-03-08",
		"cells": [
			{"date": "2024-03-08", "startTime": "12:00", "price": 5000, "source": "holiday", "blocked": false},
			{"date": "2024-03-08", "startTime": "13:30", "price": 0, "source": "rule", "blocked": true, "ruleId": 4}
		]
	}`, w.Body.String())

	require.NotNil(t, uc.req)
	require.NotNil(t, uc.req.QuestID)
	assert.Equal(t, int64(2), *uc.req.QuestID)
}

func TestHandle_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"bad quest id", "/api/v1/quests/x/schedule/preview"},
		{"bad from", "/api/v1/quests/2/schedule/preview?from=2024-3-8"},
		{"bad to", "/api/v1/quests/2/schedule/preview?to=tomorrow"},
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
		{fmt.Errorf("%w: to=2024-03-01 is before from=2024-03-08", generateSchedule.ErrInvalidRange), http.StatusBadRequest},
		{generateSchedule.ErrQuestNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: load rules", generateSchedule.ErrStorageFailure), http.StatusInternalServerError},
		{errors.New("unexpected"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := serve(&fakeUseCase{err: tt.err}, "/api/v1/quests/2/schedule/preview")
			assert.Equal(t, tt.code, w.Code)
		})
	}
}
