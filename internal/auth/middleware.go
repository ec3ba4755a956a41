package auth

import (
	"context"
	"net/http"
	"strings"

	"munera-backend/internal/session"
)

type contextKey string

const (
	userIDKey    contextKey = "munera_user_id"
	sessionIDKey contextKey = "munera_session_id"
)

// Middleware requires a valid bearer token AND a live session record:
// a logged-out token is rejected even before it expires.
func Middleware(sessions *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			if token == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := ParseToken(token)
			if err != nil || claims.Subject == "" || claims.ID == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			rec, err := sessions.Get(r.Context(), claims.ID)
			if err != nil {
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			if rec == nil || rec.UserID != claims.Subject {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.Subject)
			ctx = context.WithValue(ctx, sessionIDKey, claims.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok
}

func SessionIDFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(sessionIDKey).(string)
	return sessionID, ok
}
