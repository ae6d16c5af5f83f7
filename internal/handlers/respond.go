package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Varun5711/tasktracker/internal/logger"
	"github.com/Varun5711/tasktracker/internal/service"
	"github.com/Varun5711/tasktracker/internal/validation"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   code,
		Message: message,
	})
}

func respondInvalid(w http.ResponseWriter, message string) {
	respondError(w, http.StatusBadRequest, "invalid_request", message)
}

// respondServiceError maps service errors onto statuses. Unknown errors are
// logged and reported without detail.
func respondServiceError(w http.ResponseWriter, log *logger.Logger, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		respondInvalid(w, verr.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
	case errors.Is(err, service.ErrInvalidSession):
		respondError(w, http.StatusUnauthorized, "invalid_session", "invalid or expired session")
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrOwnerNotFound):
		respondError(w, http.StatusNotFound, "user_not_found", "user not found")
	case errors.Is(err, service.ErrTaskNotFound):
		respondError(w, http.StatusNotFound, "task_not_found", "task not found")
	case errors.Is(err, service.ErrDuplicateEmail):
		respondError(w, http.StatusConflict, "duplicate_email", "a user with this email already exists")
	default:
		log.Error("Request failed: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
