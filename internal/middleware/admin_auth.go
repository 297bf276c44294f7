package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Avzolem/yugioh-server/internal/repository"
)

// AdminAuth creates middleware requiring session auth plus membership
// in the admin email allowlist. The allowlist is fixed at construction
// time; changing it means restarting the server.
func AdminAuth(sessionRepo repository.WebSessionRepo, userRepo repository.UserRepo, adminEmails []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(adminEmails))
	for _, email := range adminEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			allowed[email] = true
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, user, status, message := authenticate(r, sessionRepo, userRepo)
			if status != 0 {
				writeAuthError(w, status, message)
				return
			}

			if !allowed[strings.ToLower(user.Email)] {
				writeAuthError(w, http.StatusForbidden, "Admin access required.")
				return
			}

			go sessionRepo.Touch(context.Background(), session.ID)

			ctx := context.WithValue(r.Context(), SessionContextKey, session)
			ctx = context.WithValue(ctx, UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
