package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, http.StatusOK, map[string]string{"id": "1"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotContains(t, body, "message")
	assert.NotContains(t, body, "details")
}

func TestErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusNotFound, "User not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "User not found", body["message"])
	assert.NotContains(t, body, "data")
}

func TestValidationFailedEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	ValidationFailed(rec, []string{"email is required"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Validation error", body["message"])
	assert.Equal(t, []any{"email is required"}, body["details"])
}

func TestSuccessListEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	SuccessList(rec, []string{}, Pagination{Total: 10, Limit: 5, Offset: 0, HasMore: true})

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, []any{}, body["data"], "empty page stays an array")

	pagination, ok := body["pagination"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(10), pagination["total"])
	assert.Equal(t, float64(5), pagination["limit"])
	assert.Equal(t, float64(0), pagination["offset"])
	assert.Equal(t, true, pagination["hasMore"])
}
