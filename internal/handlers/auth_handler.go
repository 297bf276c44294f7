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

// AuthHandler handles registration, login and session endpoints
type AuthHandler struct {
	authService   *services.AuthService
	metrics       *observability.BusinessMetrics
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *services.AuthService, metrics *observability.BusinessMetrics, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		metrics:       metrics,
		secureCookies: secureCookies,
	}
}

// Register creates an account and logs the new user in
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, session, err := h.authService.Register(r.Context(), &req, clientIP(r), r.UserAgent())
	if h.metrics != nil {
		h.metrics.RecordAuthAttempt(r.Context(), "register", err == nil)
	}
	if err != nil {
		switch err {
		case models.ErrEmailExists:
			http.Error(w, "Email already registered", http.StatusConflict)
		case models.ErrEmptyEmail, models.ErrEmptyDisplayName, models.ErrPasswordTooShort:
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "Failed to create account", http.StatusInternalServerError)
		}
		return
	}

	h.setSessionCookie(w, r, session)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user.ToResponse())
}

// Login verifies credentials and opens a session
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, session, err := h.authService.Login(r.Context(), &req, clientIP(r), r.UserAgent())
	if h.metrics != nil {
		h.metrics.RecordAuthAttempt(r.Context(), "password", err == nil)
	}
	if err != nil {
		if err == models.ErrInvalidPassword {
			http.Error(w, "Invalid email or password", http.StatusUnauthorized)
			return
		}
		http.Error(w, "Failed to log in", http.StatusInternalServerError)
		return
	}

	h.setSessionCookie(w, r, session)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user.ToResponse())
}

// Logout ends the current session and clears the cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())
	if session != nil {
		if err := h.authService.Logout(r.Context(), session.ID); err != nil {
			http.Error(w, "Failed to log out", http.StatusInternalServerError)
			return
		}
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

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user.ToResponse())
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, r *http.Request, session *models.WebSession) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies || r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		Expires:  session.ExpiresAt,
	})
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	return r.RemoteAddr
}
