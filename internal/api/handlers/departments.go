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
	"github.com/hugh/cardhub/internal/cards"
	"github.com/hugh/cardhub/internal/database/models"
	"gorm.io/gorm"
)

type DepartmentHandler struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewDepartmentHandler(db *gorm.DB, logger *slog.Logger) *DepartmentHandler {
	return &DepartmentHandler{db: db, logger: logger}
}

// resolveCompanyID picks the tenant a directory row belongs to. Scoped actors
// always write into their own company; the request field only matters for
// platform callers.
func resolveCompanyID(actor cards.Actor, requested string) (uuid.UUID, bool) {
	if actor.Scoped() {
		return *actor.CompanyID, true
	}
	id, err := uuid.Parse(requested)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (h *DepartmentHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())
	query := h.db.WithContext(r.Context()).Model(&models.Department{})
	if actor.Scoped() {
		query = query.Where("company_id = ?", *actor.CompanyID)
	}

	var departments []models.Department
	if err := query.Order("name").Find(&departments).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, departments)
}

func (h *DepartmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.DepartmentRequest
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

	department := models.Department{
		CompanyID:   companyID,
		Name:        req.Name,
		Description: req.Description,
	}
	if req.Status != "" {
		department.Status = models.Status(req.Status)
	}

	if err := h.db.WithContext(r.Context()).Create(&department).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create department"})
		return
	}

	h.logger.Info("created department", "id", department.ID, "company_id", department.CompanyID)
	writeJSON(w, http.StatusCreated, department)
}

func (h *DepartmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid department ID"})
		return
	}

	actor := middleware.GetActor(r.Context())
	query := h.db.WithContext(r.Context())
	if actor.Scoped() {
		query = query.Where("company_id = ?", *actor.CompanyID)
	}

	var department models.Department
	if err := query.First(&department, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Department not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, department)
}

func (h *DepartmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid department ID"})
		return
	}

	var req dto.DepartmentRequest
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

	var department models.Department
	if err := query.First(&department, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Department not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	updates := map[string]interface{}{
		"name":        req.Name,
		"description": req.Description,
	}
	if req.Status != "" {
		updates["status"] = models.Status(req.Status)
	}

	if err := h.db.WithContext(r.Context()).Model(&department).Updates(updates).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update department"})
		return
	}

	writeJSON(w, http.StatusOK, department)
}

// Delete removes a department. Members keep their accounts; their
// department link is nulled out by the FK.
func (h *DepartmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid department ID"})
		return
	}

	actor := middleware.GetActor(r.Context())
	query := h.db.WithContext(r.Context())
	if actor.Scoped() {
		query = query.Where("company_id = ?", *actor.CompanyID)
	}

	result := query.Delete(&models.Department{}, "id = ?", id)
	if result.Error != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to delete department"})
		return
	}
	if result.RowsAffected == 0 {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Department not found"})
		return
	}

	h.logger.Info("deleted department", "id", id)
	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Department deleted"})
}
