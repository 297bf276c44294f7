package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Avzolem/yugioh-server/internal/models"
	"github.com/Avzolem/yugioh-server/internal/repository"
)

type contextKey string

const (
	UserContextKey    contextKey = "user"
	SessionContextKey contextKey = "session"

	// SessionCookieName is the cookie carrying the session token
	SessionCookieName = "session_token"
)

// GetUserFromContext retrieves the authenticated user from request context
func GetUserFromContext(ctx context.Context) *models.User {
	if user, ok := ctx.Value(UserContextKey).(*models.User); ok {
		return user
	}
	return nil
}

// GetSessionFromContext retrieves the web session from request context
func GetSessionFromContext(ctx context.Context) *models.WebSession {
	if session, ok := ctx.Value(SessionContextKey).(*models.WebSession); ok {
		return session
	}
	return nil
}

// SessionAuth creates middleware for cookie session authentication
func SessionAuth(sessionRepo repository.WebSessionRepo, userRepo repository.UserRepo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, user, status, message := authenticate(r, sessionRepo, userRepo)
			if status != 0 {
				writeAuthError(w, status, message)
				return
			}

			// Update last activity (async, don't wait)
			go sessionRepo.Touch(context.Background(), session.ID)

			ctx := context.WithValue(r.Context(), SessionContextKey, session)
			ctx = context.WithValue(ctx, UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authenticate resolves the session cookie to an active session and
// user. A non-zero status means rejection.
func authenticate(r *http.Request, sessionRepo repository.WebSessionRepo, userRepo repository.UserRepo) (*models.WebSession, *models.User, int, string) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil, http.StatusUnauthorized, "Session required."
	}

	session, err := sessionRepo.GetByID(r.Context(), cookie.Value)
	if err != nil {
		return nil, nil, http.StatusInternalServerError, "Internal server error."
	}
	if session == nil || !session.IsActive || session.IsExpired() {
		return nil, nil, http.StatusUnauthorized, "Session expired or invalid."
	}

	user, err := userRepo.GetByID(r.Context(), session.UserID)
	if err != nil || user == nil || !user.IsActive {
		return nil, nil, http.StatusUnauthorized, "User not found or disabled."
	}

	return session, user, 0, ""
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
