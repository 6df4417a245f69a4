package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/availability"
	"github.com/m04kA/SMC-AppointmentService/internal/service/conflicts"
)

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondConflict(rec, "занято")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ErrorResponse{Code: http.StatusConflict, Message: "занято"}, body)
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Date string `json:"date"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"date":"2025-06-02"}`))
	require.NoError(t, DecodeJSON(r, &dst))
	assert.Equal(t, "2025-06-02", dst.Date)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"unknown":1}`))
	assert.Error(t, DecodeJSON(r, &dst))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	assert.Error(t, DecodeJSON(r, &dst))
}

func TestQueryParams(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?serviceIds=1,%202,&professionalId=7&bad=x", nil)

	ids, err := QueryInt64List(r, "serviceIds")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids)

	prof, err := QueryInt64(r, "professionalId")
	require.NoError(t, err)
	assert.Equal(t, int64(7), *prof)

	missing, err := QueryInt64(r, "clientId")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = QueryInt64(r, "bad")
	assert.Error(t, err)
}

func TestPathInt64(t *testing.T) {
	r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"bookingId": "12"})
	id, err := PathInt64(r, "bookingId")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	r = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"bookingId": "-1"})
	_, err = PathInt64(r, "bookingId")
	assert.Error(t, err)
}

func TestRespondBookingConflict(t *testing.T) {
	rec := httptest.NewRecorder()
	handled := RespondBookingConflict(rec, fmt.Errorf("wrap: %w", &availability.ConflictError{ReservationID: 17}), "занято")

	require.True(t, handled)
	assert.Equal(t, http.StatusConflict, rec.Code)
	var body ConflictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(17), *body.ConflictingBookingID)

	rec = httptest.NewRecorder()
	assert.True(t, RespondBookingConflict(rec, conflicts.ErrConcurrentModification, "занято"))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = httptest.NewRecorder()
	assert.False(t, RespondBookingConflict(rec, errors.New("other"), "занято"))
	assert.Equal(t, http.StatusOK, rec.Code)
}
