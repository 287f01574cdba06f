package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hugh/cardhub/internal/api/dto"
	"github.com/hugh/cardhub/internal/cards"
)

// PublicHandler serves the unauthenticated card surface: anyone holding a
// card's slug can view it, provided the card is public.
type PublicHandler struct {
	service *cards.Service
}

func NewPublicHandler(service *cards.Service) *PublicHandler {
	return &PublicHandler{service: service}
}

// ShowCard handles GET /cards/{slug}. Private and unknown slugs answer the
// same 404 so the response never reveals whether a private card exists.
func (h *PublicHandler) ShowCard(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	card, err := h.service.ResolvePublic(r.Context(), slug)
	if err != nil {
		if errors.Is(err, cards.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Business card not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, card)
}
