package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Avzolem/yugioh-server/internal/middleware"
	"github.com/Avzolem/yugioh-server/internal/models"
	"github.com/Avzolem/yugioh-server/internal/observability"
	"github.com/Avzolem/yugioh-server/internal/services"
)

// ShareHandler handles share-link endpoints. Resolution is the one
// surface that crosses the authentication boundary: GET by token
// requires no session.
type ShareHandler struct {
	shareService *services.ShareService
	metrics      *observability.BusinessMetrics
}

// NewShareHandler creates a new ShareHandler
func NewShareHandler(shareService *services.ShareService, metrics *observability.BusinessMetrics) *ShareHandler {
	return &ShareHandler{
		shareService: shareService,
		metrics:      metrics,
	}
}

// CreateLink mints a share token for one of the user's lists
func (h *ShareHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.CreateShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !models.IsValidListType(req.ListType) {
		http.Error(w, "Invalid list type", http.StatusBadRequest)
		return
	}

	link, err := h.shareService.CreateLink(r.Context(), user.ID, models.ListType(req.ListType), req.ExpiresInDays)
	if err != nil {
		http.Error(w, "Failed to create share link", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(models.ShareLinkResponse{
		Token:     link.Token,
		ShareURL:  h.shareService.ShareURL(link.Token),
		ExpiresAt: link.ExpiresAt,
	})
}

// ResolveLink serves the live shared list to anyone holding the
// token. Expired links answer 410, unknown tokens 404.
func (h *ShareHandler) ResolveLink(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		http.Error(w, "Token required", http.StatusBadRequest)
		return
	}

	shared, err := h.shareService.ResolveLink(r.Context(), token)
	if err != nil {
		switch err {
		case models.ErrShareLinkNotFound:
			h.recordResolved(r, "not_found")
			http.Error(w, "Share link not found", http.StatusNotFound)
		case models.ErrShareLinkExpired:
			h.recordResolved(r, "expired")
			http.Error(w, "Share link has expired", http.StatusGone)
		default:
			http.Error(w, "Failed to resolve share link", http.StatusInternalServerError)
		}
		return
	}
	h.recordResolved(r, "ok")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(shared)
}

func (h *ShareHandler) recordResolved(r *http.Request, outcome string) {
	if h.metrics != nil {
		h.metrics.RecordShareResolved(r.Context(), outcome)
	}
}

// RevokeLink deletes one of the user's share links early
func (h *ShareHandler) RevokeLink(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	token := chi.URLParam(r, "token")
	if err := h.shareService.RevokeLink(r.Context(), user.ID, token); err != nil {
		if err == models.ErrShareLinkNotFound {
			http.Error(w, "Share link not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to revoke share link", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
