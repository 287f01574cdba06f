package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hugh/cardhub/internal/api/dto"
	"github.com/hugh/cardhub/internal/api/middleware"
	"github.com/hugh/cardhub/internal/database/models"
	"gorm.io/gorm"
)

type DesignationHandler struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewDesignationHandler(db *gorm.DB, logger *slog.Logger) *DesignationHandler {
	return &DesignationHandler{db: db, logger: logger}
}

func (h *DesignationHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())
	query := h.db.WithContext(r.Context()).Model(&models.Designation{})
	if actor.Scoped() {
		query = query.Where("company_id = ?", *actor.CompanyID)
	}

	var designations []models.Designation
	if err := query.Order("title").Find(&designations).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, designations)
}

func (h *DesignationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.DesignationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	actor := middleware.GetActor(r.Context())
	companyID, ok := resolveCompanyID(actor, req.CompanyID)
	if !ok {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: map[string]string{"company_id": "Please select a company."}})
		return
	}

	designation := models.Designation{
		CompanyID:   companyID,
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != "" {
		designation.Status = models.Status(req.Status)
	}

	if err := h.db.WithContext(r.Context()).Create(&designation).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create designation"})
		return
	}

	h.logger.Info("created designation", "id", designation.ID, "company_id", designation.CompanyID)
	writeJSON(w, http.StatusCreated, designation)
}

func (h *DesignationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid designation ID"})
		return
	}

	actor := middleware.GetActor(r.Context())
	query := h.db.WithContext(r.Context())
	if actor.Scoped() {
		query = query.Where("company_id = ?", *actor.CompanyID)
	}

	var designation models.Designation
	if err := query.First(&designation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Designation not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, designation)
}

func (h *DesignationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid designation ID"})
		return
	}

	var req dto.DesignationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	actor := middleware.GetActor(r.Context())
	query := h.db.WithContext(r.Context())
	if actor.Scoped() {
		query = query.Where("company_id = ?", *actor.CompanyID)
	}

	var designation models.Designation
	if err := query.First(&designation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Designation not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	updates := map[string]interface{}{
		"title":       req.Title,
		"description": req.Description,
	}
	if req.Status != "" {
		updates["status"] = models.Status(req.Status)
	}

	if err := h.db.WithContext(r.Context()).Model(&designation).Updates(updates).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update designation"})
		return
	}

	writeJSON(w, http.StatusOK, designation)
}

func (h *DesignationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid designation ID"})
		return
	}

	actor := middleware.GetActor(r.Context())
	query := h.db.WithContext(r.Context())
	if actor.Scoped() {
		query = query.Where("company_id = ?", *actor.CompanyID)
	}

	result := query.Delete(&models.Designation{}, "id = ?", id)
	if result.Error != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to delete designation"})
		return
	}
	if result.RowsAffected == 0 {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Designation not found"})
		return
	}

	h.logger.Info("deleted designation", "id", id)
	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Designation deleted"})
}
