package handlers_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hugh/cardhub/internal/api/dto"
	"github.com/hugh/cardhub/internal/api/handlers"
	"github.com/hugh/cardhub/internal/api/middleware"
	"github.com/hugh/cardhub/internal/cards"
	"github.com/hugh/cardhub/internal/database/models"
	"github.com/hugh/cardhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCardTestRouter(t *testing.T) (*chi.Mux, *testutil.TestSetup) {
	tc := testutil.NewTestContext(t)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := cards.NewService(tc.DB, logger)
	handler := handlers.NewBusinessCardHandler(service)

	r := chi.NewRouter()
	r.Route("/api/v1/business-cards", func(r chi.Router) {
		r.Use(middleware.Auth(tc.JWTService))
		r.Get("/", handler.List)
		r.Post("/", handler.Create)
		r.Get("/options", handler.Options)
		r.Get("/{id}", handler.Get)
		r.Put("/{id}", handler.Update)
		r.Delete("/{id}", handler.Delete)
	})

	return r, tc
}

func TestBusinessCardHandler_Create(t *testing.T) {
	router, tc := setupCardTestRouter(t)
	defer tc.Cleanup()

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
	}{
		{
			name: "valid card",
			body: map[string]interface{}{
				"user_id":    tc.User.ID.String(),
				"company_id": tc.Company.ID.String(),
				"template":   "modern",
				"colors":     map[string]string{"primary": "#1a73e8"},
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "unknown template",
			body: map[string]interface{}{
				"user_id":    tc.User.ID.String(),
				"company_id": tc.Company.ID.String(),
				"template":   "holographic",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "missing owner",
			body: map[string]interface{}{
				"company_id": tc.Company.ID.String(),
				"template":   "modern",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "bad color value",
			body: map[string]interface{}{
				"user_id":    tc.User.ID.String(),
				"company_id": tc.Company.ID.String(),
				"template":   "modern",
				"colors":     map[string]string{"primary": "red"},
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/business-cards", tt.body, tc.Token)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)

			if tt.wantStatus == http.StatusCreated {
				var card models.BusinessCard
				testutil.ParseJSONResponse(t, rr, &card)
				assert.Len(t, card.Slug, models.CardSlugLength)
				assert.True(t, card.IsDefault)
				assert.True(t, card.IsPublic)
			}
		})
	}
}

func TestBusinessCardHandler_Create_Unauthorized(t *testing.T) {
	router, tc := setupCardTestRouter(t)
	defer tc.Cleanup()

	req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/business-cards", map[string]interface{}{})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestBusinessCardHandler_List(t *testing.T) {
	router, tc := setupCardTestRouter(t)
	defer tc.Cleanup()

	testutil.CreateTestCard(t, tc.DB, tc.User)

	// Another tenant's card must not appear.
	otherCompany := testutil.CreateTestCompany(t, tc.DB)
	otherUser := testutil.CreateTestUser(t, tc.DB, otherCompany, models.RoleEmployee)
	testutil.CreateTestCard(t, tc.DB, otherUser)

	req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/business-cards", nil, tc.Token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp dto.PaginatedResponse
	testutil.ParseJSONResponse(t, rr, &resp)
	assert.EqualValues(t, 1, resp.Total)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 12, resp.PerPage)
}

func TestBusinessCardHandler_Get(t *testing.T) {
	router, tc := setupCardTestRouter(t)
	defer tc.Cleanup()

	owner := testutil.CreateTestUser(t, tc.DB, tc.Company, models.RoleEmployee)
	card := testutil.CreateTestCard(t, tc.DB, owner)

	t.Run("non-owner view counts", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/business-cards/"+card.ID.String(), nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp models.BusinessCard
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.EqualValues(t, 1, resp.ViewsCount)
	})

	t.Run("owner view does not count", func(t *testing.T) {
		ownCard := testutil.CreateTestCard(t, tc.DB, tc.User)

		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/business-cards/"+ownCard.ID.String(), nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp models.BusinessCard
		testutil.ParseJSONResponse(t, rr, &resp)
		assert.Zero(t, resp.ViewsCount)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/business-cards/not-a-uuid", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestBusinessCardHandler_Update(t *testing.T) {
	router, tc := setupCardTestRouter(t)
	defer tc.Cleanup()

	card := testutil.CreateTestCard(t, tc.DB, tc.User)

	body := map[string]interface{}{
		"template":  "creative",
		"is_public": false,
	}
	req := testutil.AuthenticatedRequest(t, "PUT", "/api/v1/business-cards/"+card.ID.String(), body, tc.Token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.BusinessCard
	testutil.ParseJSONResponse(t, rr, &resp)
	assert.Equal(t, models.TemplateCreative, resp.Template)
	assert.False(t, resp.IsPublic)
	assert.Equal(t, card.Slug, resp.Slug)
}

func TestBusinessCardHandler_Delete(t *testing.T) {
	router, tc := setupCardTestRouter(t)
	defer tc.Cleanup()

	card := testutil.CreateTestCard(t, tc.DB, tc.User)

	req := testutil.AuthenticatedRequest(t, "DELETE", "/api/v1/business-cards/"+card.ID.String(), nil, tc.Token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	// Deleting again reports not found.
	req = testutil.AuthenticatedRequest(t, "DELETE", "/api/v1/business-cards/"+card.ID.String(), nil, tc.Token)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestBusinessCardHandler_Options(t *testing.T) {
	router, tc := setupCardTestRouter(t)
	defer tc.Cleanup()

	// Options are scoped: other tenants stay invisible.
	otherCompany := testutil.CreateTestCompany(t, tc.DB)
	testutil.CreateTestUser(t, tc.DB, otherCompany, models.RoleEmployee)

	req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/business-cards/options", nil, tc.Token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var opts cards.FormOptions
	testutil.ParseJSONResponse(t, rr, &opts)
	require.Len(t, opts.Companies, 1)
	assert.Equal(t, tc.Company.ID, opts.Companies[0].ID)
	require.Len(t, opts.Users, 1)
	assert.Equal(t, tc.User.ID, opts.Users[0].ID)
}
