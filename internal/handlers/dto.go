package handlers

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"time"

	"github.com/Varun5711/tasktracker/internal/models"
)

const maxBodyBytes = 1 << 20

type TaskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Status      bool      `json:"status"`
	CreatedTime time.Time `json:"created_time"`
	CreatedDate string    `json:"created_date"`
	OwnerID     int64     `json:"owner_id"`
}

func newTaskResponse(task *models.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Status:      task.Status,
		CreatedTime: task.CreatedTime,
		CreatedDate: models.FormatDate(task.CreatedDate),
		OwnerID:     task.OwnerID,
	}
}

func newTaskList(tasks []*models.Task) []TaskResponse {
	resp := make([]TaskResponse, len(tasks))
	for i, task := range tasks {
		resp[i] = newTaskResponse(task)
	}
	return resp
}

type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type LoginResponse struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

type ProgressResponse struct {
	Date      string         `json:"date"`
	Tasks     []TaskResponse `json:"tasks"`
	Total     int            `json:"total"`
	Completed int            `json:"completed"`
	Progress  float64        `json:"progress"`
}

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateTaskRequest struct {
	Title string `json:"title"`
}

var errMalformedBody = errors.New("malformed request body")

func isForm(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data"
}

// decodeCredentials accepts a JSON body or an HTML form post.
func decodeCredentials(w http.ResponseWriter, r *http.Request) (CredentialsRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if isForm(r) {
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return CredentialsRequest{}, errMalformedBody
		}
		return CredentialsRequest{
			Email:    r.PostFormValue("email"),
			Password: r.PostFormValue("password"),
		}, nil
	}

	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return CredentialsRequest{}, errMalformedBody
	}
	return req, nil
}

func decodeCreateTask(w http.ResponseWriter, r *http.Request) (CreateTaskRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if isForm(r) {
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return CreateTaskRequest{}, errMalformedBody
		}
		return CreateTaskRequest{Title: r.PostFormValue("title")}, nil
	}

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return CreateTaskRequest{}, errMalformedBody
	}
	return req, nil
}
