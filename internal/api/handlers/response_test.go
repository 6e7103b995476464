package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name" validate:"required"`
	Count int    `json:"count" validate:"gte=1,lte=10"`
}

func TestDecodeAndValidate(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","count":3}`))
		var s sample
		require.NoError(t, DecodeAndValidate(r, &s))
		assert.Equal(t, 3, s.Count)
	})

	t.Run("unknown field", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","count":3,"x":1}`))
		var s sample
		assert.Error(t, DecodeAndValidate(r, &s))
	})

	t.Run("validation", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"count":11}`))
		var s sample
		err := DecodeAndValidate(r, &s)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sample.Name (required)")
		assert.Contains(t, err.Error(), "sample.Count (lte)")
	})
}

func TestParseIDVar(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	id, err := ParseIDVar(mux.SetURLVars(r, map[string]string{"slotId": "42"}), "slotId")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = ParseIDVar(mux.SetURLVars(r, map[string]string{"slotId": "-1"}), "slotId")
	assert.Error(t, err)

	_, err = ParseIDVar(mux.SetURLVars(r, map[string]string{"slotId": "abc"}), "slotId")
	assert.Error(t, err)
}

func TestParseDateQuery(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?from=2024-01-01&to=bad", nil)

	from, err := ParseDateQuery(r, "from")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", from.Format("2006-01-02"))

	_, err = ParseDateQuery(r, "to")
	assert.Error(t, err)

	missing, err := ParseDateQuery(r, "day")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRespondError(t *testing.T) {
	w := httptest.NewRecorder()
	RespondConflict(w, "занято")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"code":409,"message":"занято"}`, w.Body.String())
}
