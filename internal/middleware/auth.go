package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Varun5711/tasktracker/internal/logger"
	"github.com/Varun5711/tasktracker/internal/models"
	"github.com/Varun5711/tasktracker/internal/service"
)

// SessionCookieName is the HttpOnly cookie carrying the session token.
const SessionCookieName = "access_token"

type contextKey string

const userKey contextKey = "user"

type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*models.User, error)
}

type AuthMiddleware struct {
	sessions SessionResolver
	log      *logger.Logger
}

func NewAuthMiddleware(sessions SessionResolver, log *logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		sessions: sessions,
		log:      log.Named("auth-middleware"),
	}
}

// RequireAuth resolves the session from the cookie or a bearer token and
// stores the user in the request context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "invalid_session", "authentication required")
			return
		}

		user, err := m.sessions.ResolveSession(r.Context(), token)
		if errors.Is(err, service.ErrInvalidSession) {
			writeError(w, http.StatusUnauthorized, "invalid_session", "invalid or expired session")
			return
		}
		if err != nil {
			m.log.Error("Failed to resolve session: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}

func tokenFromRequest(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}

	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func ContextWithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the session user set by RequireAuth.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}
