package handlers

import (
	"net/http"

	"github.com/hugh/cardhub/internal/api/dto"
	"github.com/hugh/cardhub/internal/api/middleware"
	"github.com/hugh/cardhub/internal/cards"
)

type DashboardHandler struct {
	service *cards.Service
}

func NewDashboardHandler(service *cards.Service) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetActor(r.Context())
	stats, err := h.service.Stats(r.Context(), actor)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
