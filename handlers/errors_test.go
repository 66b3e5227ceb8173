package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"GlobalDent/services"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &services.ValidationError{Err: errors.New("reason: cannot be blank")}, http.StatusBadRequest},
		{"not found", fmt.Errorf("patient %w", services.ErrNotFound), http.StatusNotFound},
		{"conflict", fmt.Errorf("slot taken: %w", services.ErrConflict), http.StatusConflict},
		{"procedure in use", fmt.Errorf("procedure 3: %w", services.ErrProcedureInUse), http.StatusConflict},
		{"foreign tooth", services.ErrToothNotInConsultation, http.StatusUnprocessableEntity},
		{"incomplete odontogram", services.ErrIncompleteOdontogram, http.StatusUnprocessableEntity},
		{"credentials", services.ErrInvalidCredentials, http.StatusUnauthorized},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, tt.err)
			assert.Equal(t, tt.want, rec.Code)
			assert.True(t, c.IsAborted())
		})
	}
}

func TestRespondError_FieldDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	respondError(c, &services.ValidationError{Err: validation.Errors{"end_time": errors.New("end time must be after start time")}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"validation failed","details":{"end_time":"end time must be after start time"}}`, rec.Body.String())
}

func TestRespondError_HidesInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondError(c, errors.New("pq: password authentication failed"))
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}

func TestParseID(t *testing.T) {
	for raw, ok := range map[string]bool{"12": true, "0": false, "-1": false, "abc": false} {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Params = gin.Params{{Key: "id", Value: raw}}

		id, got := parseID(c, "id")
		assert.Equal(t, ok, got, raw)
		if ok {
			assert.Equal(t, uint(12), id)
		} else {
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		}
	}
}

func TestOptionalQueryID(t *testing.T) {
	query := func(target string) (*uint, bool, int) {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodGet, target, nil)
		id, ok := optionalQueryID(c, "patient_id")
		return id, ok, rec.Code
	}

	id, ok, _ := query("/?patient_id=4")
	assert.True(t, ok)
	if assert.NotNil(t, id) {
		assert.Equal(t, uint(4), *id)
	}

	id, ok, _ = query("/")
	assert.True(t, ok)
	assert.Nil(t, id)

	_, ok, code := query("/?patient_id=x")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, code)
}
