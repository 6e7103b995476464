package pricing_rule

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-QuestScheduleService/internal/service/pricing"
	"github.com/m04kA/SMC-QuestScheduleService/internal/service/pricing/models"
	"github.com/m04kA/SMC-QuestScheduleService/pkg/logger"
)

type fakeService struct {
	upserted *models.UpsertRuleRequest
	listReq  *models.ListRulesRequest
	err      error
}

func (f *fakeService) UpsertPricingRule(_ context.Context, req *models.UpsertRuleRequest) (*models.RuleResponse, error) {
	f.upserted = req
	if f.err != nil {
		return nil, f.err
	}
	id := req.ID
	if id == 0 {
		id = 42
	}
	return &models.RuleResponse{ID: id, QuestIDs: req.QuestIDs, Price: req.Price, IsActive: true}, nil
}

func (f *fakeService) GetByID(_ context.Context, id int64) (*models.RuleResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.RuleResponse{ID: id}, nil
}

func (f *fakeService) List(_ context.Context, req *models.ListRulesRequest) (*models.RuleListResponse, error) {
	f.listReq = req
	return &models.RuleListResponse{Rules: []*models.RuleResponse{}}, f.err
}

func (f *fakeService) Delete(_ context.Context, _ int64) error {
	return f.err
}

func newRouter(svc *fakeService) *mux.Router {
	h := NewHandler(svc, logger.NewNop())
	r := mux.NewRouter()
	r.HandleFunc("/pricing-rules", h.HandleCreate).Methods(http.MethodPost)
	r.HandleFunc("/pricing-rules", h.HandleList).Methods(http.MethodGet)
	r.HandleFunc("/pricing-rules/{ruleId}", h.HandleUpdate).Methods(http.MethodPut)
	r.HandleFunc("/pricing-rules/{ruleId}", h.HandleGet).Methods(http.MethodGet)
	r.HandleFunc("/pricing-rules/{ruleId}", h.HandleDelete).Methods(http.MethodDelete)
	return r
}

func do(r *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))
	return w
}

func TestHandleCreate(t *testing.T) {
	svc := &fakeService{}

	w := do(newRouter(svc), http.MethodPost, "/pricing-rules",
		`{"name":"weekend","questIds":[1,2],"weekdays":[0,6],"timeFrom":"18:00","timeTo":"23:00","price":3500,"priority":10}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.upserted)
	assert.Equal(t, int64(0), svc.upserted.ID)
	assert.Equal(t, []int64{1, 2}, svc.upserted.QuestIDs)
	assert.Equal(t, []int{0, 6}, svc.upserted.Weekdays)
	assert.Contains(t, w.Body.String(), `"id":42`)
}

func TestHandleCreate_ValidationFails(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no quests", `{"price":100}`},
		{"bad weekday", `{"questIds":[1],"weekdays":[7],"price":100}`},
		{"bad time", `{"questIds":[1],"timeFrom":"25:00","price":100}`},
		{"bad date", `{"questIds":[1],"startDate":"01.01.2024","price":100}`},
		{"unknown field", `{"questIds":[1],"price":100,"discount":5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{}
			w := do(newRouter(svc), http.MethodPost, "/pricing-rules", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Nil(t, svc.upserted)
		})
	}
}

func TestHandleUpdate_UsesPathID(t *testing.T) {
	svc := &fakeService{}

	w := do(newRouter(svc), http.MethodPut, "/pricing-rules/5", `{"questIds":[3],"isBlocked":true}`)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.upserted)
	assert.Equal(t, int64(5), svc.upserted.ID)
	assert.True(t, svc.upserted.IsBlocked)
}

func TestHandleList_Filters(t *testing.T) {
	svc := &fakeService{}

	w := do(newRouter(svc), http.MethodGet, "/pricing-rules?questId=3&active=true", "")

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.listReq)
	require.NotNil(t, svc.listReq.QuestID)
	assert.Equal(t, int64(3), *svc.listReq.QuestID)
	assert.True(t, svc.listReq.OnlyActive)

	w = do(newRouter(svc), http.MethodGet, "/pricing-rules?active=maybe", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{pricing.ErrRuleNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: quest_id=9", pricing.ErrQuestNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: start after end", pricing.ErrInvalidInput), http.StatusBadRequest},
		{pricing.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			r := newRouter(&fakeService{err: tt.err})
			assert.Equal(t, tt.code, do(r, http.MethodGet, "/pricing-rules/1", "").Code)
			assert.Equal(t, tt.code, do(r, http.MethodDelete, "/pricing-rules/1", "").Code)
		})
	}
}

func TestHandleDelete(t *testing.T) {
	w := do(newRouter(&fakeService{}), http.MethodDelete, "/pricing-rules/1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(newRouter(&fakeService{}), http.MethodDelete, "/pricing-rules/zero", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
