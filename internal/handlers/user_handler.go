package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Avzolem/yugioh-server/internal/middleware"
	"github.com/Avzolem/yugioh-server/internal/models"
	"github.com/Avzolem/yugioh-server/internal/observability"
	"github.com/Avzolem/yugioh-server/internal/services"
)

// UserHandler handles profile endpoints
type UserHandler struct {
	accountService *services.AccountService
	imageCache     *services.ImageCacheService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(accountService *services.AccountService, imageCache *services.ImageCacheService) *UserHandler {
	return &UserHandler{
		accountService: accountService,
		imageCache:     imageCache,
	}
}

// GetStats returns the user's collection overview
func (h *UserHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	stats, err := h.accountService.GetStats(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "Failed to load stats", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

// DeleteAccount removes the user and everything they own
func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.accountService.DeleteAccount(r.Context(), user.ID); err != nil {
		if err == models.ErrUserNotFound {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to delete account", http.StatusInternalServerError)
		return
	}

	if err := h.imageCache.RemoveUserImages(user.ID); err != nil {
		observability.WithContext(r.Context()).Warnf("Failed to remove cached images for deleted user: %v", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
