package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hugh/cardhub/internal/api/dto"
	"github.com/hugh/cardhub/internal/api/middleware"
	"github.com/hugh/cardhub/internal/auth"
	"github.com/hugh/cardhub/internal/database/models"
	"gorm.io/gorm"
)

type UserHandler struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewUserHandler(db *gorm.DB, logger *slog.Logger) *UserHandler {
	return &UserHandler{db: db, logger: logger}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())
	pagination := parsePagination(r)

	query := h.db.WithContext(r.Context()).Model(&models.User{})
	if actor.Scoped() {
		query = query.Where("company_id = ?", *actor.CompanyID)
	}
	if search := r.URL.Query().Get("search"); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("lower(name) LIKE ? OR lower(email) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	var users []models.User
	err := query.
		Preload("Department").
		Preload("Designation").
		Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.PerPage).
		Find(&users).Error
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	totalPages := int((total + int64(pagination.PerPage) - 1) / int64(pagination.PerPage))
	writeJSON(w, http.StatusOK, dto.PaginatedResponse{
		Data:       users,
		Total:      total,
		Page:       pagination.Page,
		PerPage:    pagination.PerPage,
		TotalPages: totalPages,
	})
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
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

	role := models.RoleEmployee
	if req.Role != "" {
		role = models.Role(req.Role)
		if !role.Valid() {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: map[string]string{"role": "The selected role is invalid"}})
			return
		}
	}
	// Tenant admins cannot mint platform accounts.
	if role.IsPlatform() && actor.Scoped() {
		writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "Forbidden"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create user"})
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		CompanyID:    &companyID,
		Role:         role,
		Phone:        req.Phone,
		Avatar:       req.Avatar,
		Bio:          req.Bio,
		SocialLinks:  req.SocialLinks,
	}
	if req.Status != "" {
		user.Status = models.Status(req.Status)
	}
	if deptID, err := uuid.Parse(req.DepartmentID); err == nil {
		user.DepartmentID = &deptID
	}
	if desigID, err := uuid.Parse(req.DesignationID); err == nil {
		user.DesignationID = &desigID
	}

	if err := h.db.WithContext(r.Context()).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "A user with this email already exists"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create user"})
		return
	}

	h.logger.Info("created user", "id", user.ID, "company_id", companyID, "role", role)
	writeJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
		return
	}

	actor := middleware.GetActor(r.Context())
	query := h.db.WithContext(r.Context()).
		Preload("Company").
		Preload("Department").
		Preload("Designation")
	if actor.Scoped() {
		query = query.Where("company_id = ?", *actor.CompanyID)
	}

	var user models.User
	if err := query.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "User not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
		return
	}

	var req dto.UpdateUserRequest
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

	var user models.User
	if err := query.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "User not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	updates := map[string]interface{}{
		"name":   req.Name,
		"phone":  req.Phone,
		"avatar": req.Avatar,
		"bio":    req.Bio,
	}
	if req.Role != "" {
		role := models.Role(req.Role)
		if !role.Valid() {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: map[string]string{"role": "The selected role is invalid"}})
			return
		}
		if role.IsPlatform() && actor.Scoped() {
			writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "Forbidden"})
			return
		}
		updates["role"] = role
	}
	if req.Status != "" {
		updates["status"] = models.Status(req.Status)
	}
	if req.SocialLinks != nil {
		updates["social_links"] = models.StringMap(*req.SocialLinks)
	}
	// A nil pointer leaves the link untouched; an empty string clears it.
	if req.DepartmentID != nil {
		if *req.DepartmentID == "" {
			updates["department_id"] = nil
		} else if deptID, err := uuid.Parse(*req.DepartmentID); err == nil {
			updates["department_id"] = deptID
		}
	}
	if req.DesignationID != nil {
		if *req.DesignationID == "" {
			updates["designation_id"] = nil
		} else if desigID, err := uuid.Parse(*req.DesignationID); err == nil {
			updates["designation_id"] = desigID
		}
	}

	if err := h.db.WithContext(r.Context()).Model(&user).Updates(updates).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update user"})
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Delete removes a user and, via the FK cascade, every card they own.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
		return
	}

	actor := middleware.GetActor(r.Context())
	if id == actor.UserID {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "You cannot delete your own account"})
		return
	}

	query := h.db.WithContext(r.Context())
	if actor.Scoped() {
		query = query.Where("company_id = ?", *actor.CompanyID)
	}

	result := query.Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to delete user"})
		return
	}
	if result.RowsAffected == 0 {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "User not found"})
		return
	}

	h.logger.Info("deleted user", "id", id)
	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "User deleted"})
}
