package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hugh/cardhub/internal/api/handlers"
	"github.com/hugh/cardhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	handler := handlers.NewHealthHandler(db)

	t.Run("health always answers ok", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/health-check", nil)
		rr := httptest.NewRecorder()
		handler.Health(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp handlers.HealthResponse
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Equal(t, "ok", resp.Status)
		assert.NotEmpty(t, resp.Timestamp)
	})

	t.Run("ready checks the database", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/ready", nil)
		rr := httptest.NewRecorder()
		handler.Ready(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
