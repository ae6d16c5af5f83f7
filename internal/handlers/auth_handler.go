package handlers

import (
	"net/http"

	"github.com/Varun5711/tasktracker/internal/logger"
	"github.com/Varun5711/tasktracker/internal/middleware"
	"github.com/Varun5711/tasktracker/internal/service"
)

type AuthHandler struct {
	auth         *service.AuthService
	cookieSecure bool
	log          *logger.Logger
}

func NewAuthHandler(auth *service.AuthService, cookieSecure bool, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		auth:         auth,
		cookieSecure: cookieSecure,
		log:          log.Named("auth-handler"),
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCredentials(w, r)
	if err != nil {
		respondInvalid(w, err.Error())
		return
	}

	user, session, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	respondJSON(w, http.StatusOK, LoginResponse{
		UserID:    user.ID,
		Email:     user.Email,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.Unix(),
	})
}

// Logout clears the session cookie. Tokens stay valid until they expire.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}
