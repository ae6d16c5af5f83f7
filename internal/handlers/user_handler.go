package handlers

import (
	"net/http"

	"github.com/Varun5711/tasktracker/internal/logger"
	"github.com/Varun5711/tasktracker/internal/middleware"
	"github.com/Varun5711/tasktracker/internal/service"
)

type UserHandler struct {
	users *service.UserService
	log   *logger.Logger
}

func NewUserHandler(users *service.UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{
		users: users,
		log:   log.Named("user-handler"),
	}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCredentials(w, r)
	if err != nil {
		respondInvalid(w, err.Error())
		return
	}

	user, err := h.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	h.log.Info("Registered user %d", user.ID)
	respondJSON(w, http.StatusCreated, UserResponse{ID: user.ID, Email: user.Email})
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondServiceError(w, h.log, service.ErrInvalidSession)
		return
	}

	user, err := h.users.GetUser(r.Context(), sessionUser.ID)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, UserResponse{ID: user.ID, Email: user.Email})
}
