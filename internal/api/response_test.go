package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONResponse(t *testing.T) {
	response := NewJSONResponse(map[string]string{"test": "data"})

	assert.True(t, response.Success)
	assert.NotNil(t, response.Data)
	assert.Empty(t, response.Error)
	assert.False(t, response.Timestamp.IsZero())
}

func TestNewErrorResponse(t *testing.T) {
	response := NewErrorResponse("test error")

	assert.False(t, response.Success)
	assert.Nil(t, response.Data)
	assert.Equal(t, "test error", response.Error)
	assert.False(t, response.Timestamp.IsZero())
}

func TestResponse_Write(t *testing.T) {
	t.Run("success is 200", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewJSONResponse([]int{1, 2}).Write(rec)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, true, body["success"])
		assert.Equal(t, []interface{}{1.0, 2.0}, body["data"])
		assert.NotContains(t, body, "error")
		assert.Contains(t, body, "timestamp")
	})

	t.Run("error is 500", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewErrorResponse("boom").Write(rec)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "boom", body["error"])
		assert.NotContains(t, body, "data")
	})

	t.Run("custom status", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewErrorResponse("bad").WriteWithStatus(rec, http.StatusBadRequest)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetVersion(t *testing.T) {
	version := GetVersion()

	assert.Equal(t, "v1", version.API)
	assert.NotEmpty(t, version.App)
	assert.NotEmpty(t, version.Build)
	assert.NotEmpty(t, version.Commit)
	assert.NotEmpty(t, version.Runtime)
	assert.Equal(t, ServiceName, version.Service)
	assert.True(t, strings.HasPrefix(version.String(), "gitea-bridge "+version.App+" ("))
	assert.Equal(t, "gitea-bridge/"+Version, UserAgent())
}
