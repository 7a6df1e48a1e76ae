package helper

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-share/models"
	"recipe-share/validation"
)

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.5:51234"
	assert.Equal(t, "10.0.0.5", ClientIP(req))

	req.Header.Set("X-Forwarded-For", " 203.0.113.7 , 10.0.0.1")
	assert.Equal(t, "203.0.113.7", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "")
	req.RemoteAddr = "bogus"
	assert.Equal(t, "bogus", ClientIP(req))
}

func TestUnderscore(t *testing.T) {
	assert.Equal(t, "first_name", Underscore("FirstName"))
	assert.Equal(t, "rating", Underscore("Rating"))
	assert.Equal(t, "prep_time_minutes", Underscore("PrepTimeMinutes"))
	assert.Equal(t, "user_id", Underscore("UserID"))
}

func TestGetStatusCode(t *testing.T) {
	h := NewHTTPHelper()
	assert.Equal(t, http.StatusOK, h.GetStatusCode(nil))
	assert.Equal(t, http.StatusNotFound, h.GetStatusCode(models.ErrRecipeNotFound))
	assert.Equal(t, http.StatusNotFound, h.GetStatusCode(fmt.Errorf("load: %w", models.ErrUserNotFound)))
	assert.Equal(t, http.StatusForbidden, h.GetStatusCode(models.ErrForbidden))
	assert.Equal(t, http.StatusConflict, h.GetStatusCode(models.ErrDuplicateRating))
	assert.Equal(t, http.StatusUnauthorized, h.GetStatusCode(models.ErrInvalidCredentials))
	assert.Equal(t, http.StatusInternalServerError, h.GetStatusCode(errors.New("boom")))
}

func TestSendServiceErrorValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	err := validation.Struct(models.RateRecipeRequest{Rating: 9})
	require.Error(t, err)
	NewHTTPHelper().SendServiceError(c, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validationError", body["code_type"])
	fields := body["code_message"].(map[string]interface{})
	assert.Contains(t, fields, "rating")
}

func TestSendForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	NewHTTPHelper().SendServiceError(c, models.ErrForbidden)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGeneratePagingKeepsFilters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "http://example.com/api/v1/admin/logs?action_type=user_login&page=2", nil)

	paging := NewHTTPHelper().GeneratePaging(c, 0, 0, 50, 2, 120)
	assert.Equal(t, 3, paging["total_pages"])
	links := paging["links"].(map[string]interface{})
	assert.Contains(t, links["next"], "action_type=user_login")
	assert.Contains(t, links["next"], "page=3")
	assert.Contains(t, links["previous"], "page=1")
}
