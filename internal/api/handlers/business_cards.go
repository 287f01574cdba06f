package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hugh/cardhub/internal/api/dto"
	"github.com/hugh/cardhub/internal/api/middleware"
	"github.com/hugh/cardhub/internal/api/validation"
	"github.com/hugh/cardhub/internal/cards"
)

type BusinessCardHandler struct {
	service *cards.Service
}

func NewBusinessCardHandler(service *cards.Service) *BusinessCardHandler {
	return &BusinessCardHandler{service: service}
}

// writeCardError maps domain errors onto HTTP responses. Validation failures
// keep their per-field messages.
func writeCardError(w http.ResponseWriter, err error) {
	var verr *cards.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: verr.Fields})
	case errors.Is(err, cards.ErrNotFound):
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Business card not found"})
	case errors.Is(err, cards.ErrForbidden):
		writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "Forbidden"})
	case errors.Is(err, cards.ErrConflict):
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "A card with this slug already exists"})
	default:
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
	}
}

// validColors accepts only CSS hex values so stored themes render safely.
func validColors(colors map[string]string) bool {
	for _, v := range colors {
		if !validation.IsValidHexColor(v) {
			return false
		}
	}
	return true
}

func parsePagination(r *http.Request) dto.PaginationParams {
	params := dto.PaginationParams{}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		params.Page = page
	}
	if perPage, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil {
		params.PerPage = perPage
	}
	params.Normalize()
	return params
}

func (h *BusinessCardHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())
	pagination := parsePagination(r)

	results, total, err := h.service.List(r.Context(), actor, cards.ListParams{
		Search: r.URL.Query().Get("search"),
		Offset: pagination.Offset(),
		Limit:  pagination.PerPage,
	})
	if err != nil {
		writeCardError(w, err)
		return
	}

	totalPages := int((total + int64(pagination.PerPage) - 1) / int64(pagination.PerPage))
	writeJSON(w, http.StatusOK, dto.PaginatedResponse{
		Data:       results,
		Total:      total,
		Page:       pagination.Page,
		PerPage:    pagination.PerPage,
		TotalPages: totalPages,
	})
}

func (h *BusinessCardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if !validColors(req.Colors) {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: map[string]string{"colors": "Colors must be hex values like #1a2b3c"}})
		return
	}

	// UUID parse failures fall through as uuid.Nil so the service reports
	// them with the same message as a missing field.
	userID, _ := uuid.Parse(req.UserID)
	companyID, _ := uuid.Parse(req.CompanyID)

	actor := middleware.GetActor(r.Context())
	card, err := h.service.Create(r.Context(), actor, cards.CreateInput{
		UserID:       userID,
		CompanyID:    companyID,
		Template:     req.Template,
		Colors:       req.Colors,
		CustomFields: req.CustomFields,
		IsDefault:    req.IsDefault,
		IsPublic:     req.IsPublic,
	})
	if err != nil {
		writeCardError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, card)
}

func (h *BusinessCardHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid card ID"})
		return
	}

	actor := middleware.GetActor(r.Context())
	card, err := h.service.Show(r.Context(), actor, id)
	if err != nil {
		writeCardError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, card)
}

func (h *BusinessCardHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid card ID"})
		return
	}

	var req dto.UpdateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.Colors != nil && !validColors(*req.Colors) {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: map[string]string{"colors": "Colors must be hex values like #1a2b3c"}})
		return
	}

	actor := middleware.GetActor(r.Context())
	card, err := h.service.Update(r.Context(), actor, id, cards.UpdateInput{
		Template:     req.Template,
		Colors:       req.Colors,
		CustomFields: req.CustomFields,
		IsDefault:    req.IsDefault,
		IsPublic:     req.IsPublic,
	})
	if err != nil {
		writeCardError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, card)
}

func (h *BusinessCardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid card ID"})
		return
	}

	actor := middleware.GetActor(r.Context())
	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		writeCardError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Business card deleted"})
}

// Options serves the company and user choices for card create/edit forms.
func (h *BusinessCardHandler) Options(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())
	opts, err := h.service.Options(r.Context(), actor)
	if err != nil {
		writeCardError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, opts)
}
