package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Varun5711/tasktracker/internal/logger"
	"github.com/Varun5711/tasktracker/internal/middleware"
	"github.com/Varun5711/tasktracker/internal/models"
	"github.com/Varun5711/tasktracker/internal/service"
)

type TaskHandler struct {
	tasks *service.TaskService
	log   *logger.Logger
}

func NewTaskHandler(tasks *service.TaskService, log *logger.Logger) *TaskHandler {
	return &TaskHandler{
		tasks: tasks,
		log:   log.Named("task-handler"),
	}
}

// ownerFromPath resolves {user_id} and checks it is the session user. Other
// users' resources are reported as missing.
func (h *TaskHandler) ownerFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	ownerID, ok := pathID(r, "user_id")
	if !ok {
		respondInvalid(w, "user_id must be a positive integer")
		return 0, false
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondServiceError(w, h.log, service.ErrInvalidSession)
		return 0, false
	}
	if user.ID != ownerID {
		respondServiceError(w, h.log, service.ErrUserNotFound)
		return 0, false
	}
	return ownerID, true
}

// ownedTask loads {task_id} and checks the session user owns it.
func (h *TaskHandler) ownedTask(w http.ResponseWriter, r *http.Request) (*models.Task, bool) {
	taskID, ok := pathID(r, "task_id")
	if !ok {
		respondInvalid(w, "task_id must be a positive integer")
		return nil, false
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondServiceError(w, h.log, service.ErrInvalidSession)
		return nil, false
	}

	task, err := h.tasks.GetTask(r.Context(), taskID)
	if err != nil {
		respondServiceError(w, h.log, err)
		return nil, false
	}
	if task.OwnerID != user.ID {
		respondServiceError(w, h.log, service.ErrTaskNotFound)
		return nil, false
	}
	return task, true
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerFromPath(w, r)
	if !ok {
		return
	}

	req, err := decodeCreateTask(w, r)
	if err != nil {
		respondInvalid(w, err.Error())
		return
	}

	task, err := h.tasks.CreateTask(r.Context(), ownerID, req.Title)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, newTaskResponse(task))
}

func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	task, ok := h.ownedTask(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.CompleteTask(r.Context(), task.ID)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, newTaskResponse(task))
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	task, ok := h.ownedTask(w, r)
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), task.ID); err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, MessageResponse{Message: "task deleted"})
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerFromPath(w, r)
	if !ok {
		return
	}

	date, ok := h.dateParam(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()

	filter := models.TaskFilter{View: models.TaskView(query.Get("view"))}
	var err error
	if filter.Offset, err = intParam(query.Get("offset")); err != nil {
		respondInvalid(w, "offset must be an integer")
		return
	}
	if filter.Limit, err = intParam(query.Get("limit")); err != nil {
		respondInvalid(w, "limit must be an integer")
		return
	}

	tasks, err := h.tasks.TasksForOwnerOnDate(r.Context(), ownerID, date, filter)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, newTaskList(tasks))
}

func (h *TaskHandler) Progress(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerFromPath(w, r)
	if !ok {
		return
	}

	date, ok := h.dateParam(w, r)
	if !ok {
		return
	}

	progress, err := h.tasks.DailyProgress(r.Context(), ownerID, date)
	if err != nil {
		respondServiceError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, ProgressResponse{
		Date:      models.FormatDate(progress.Date),
		Tasks:     newTaskList(progress.Tasks),
		Total:     progress.Total,
		Completed: progress.Completed,
		Progress:  progress.Percent,
	})
}

// dateParam reads ?date=YYYY-MM-DD, defaulting to today.
func (h *TaskHandler) dateParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return h.tasks.Today(), true
	}

	date, err := models.ParseDate(raw)
	if err != nil {
		respondInvalid(w, "date must be formatted as YYYY-MM-DD")
		return time.Time{}, false
	}
	return date, true
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
