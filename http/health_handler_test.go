package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	handler := NewHealthHandler()

	t.Run("reports ok with a timestamp", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()
		handler.Check(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp healthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp.Status)
		assert.NotEmpty(t, resp.Timestamp)
	})

	t.Run("rejects POST", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
		rec := httptest.NewRecorder()
		handler.Check(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
