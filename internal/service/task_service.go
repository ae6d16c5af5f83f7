package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Varun5711/tasktracker/internal/models"
	"github.com/Varun5711/tasktracker/internal/storage"
	"github.com/Varun5711/tasktracker/internal/validation"
)

type TaskService struct {
	users storage.UserStore
	tasks storage.TaskStore
	now   func() time.Time
}

func NewTaskService(users storage.UserStore, tasks storage.TaskStore, now func() time.Time) *TaskService {
	if now == nil {
		now = time.Now
	}
	return &TaskService{
		users: users,
		tasks: tasks,
		now:   now,
	}
}

// Today is the current calendar date on the service clock.
func (s *TaskService) Today() time.Time {
	return models.DateOf(s.now())
}

func (s *TaskService) CreateTask(ctx context.Context, ownerID int64, title string) (*models.Task, error) {
	title, err := validation.NormalizeTitle(title)
	if err != nil {
		return nil, err
	}

	owner, err := s.users.GetUserByID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get owner: %w", err)
	}
	if owner == nil {
		return nil, ErrOwnerNotFound
	}

	now := s.now()
	task, err := s.tasks.CreateTask(ctx, &models.Task{
		Title:       title,
		Status:      false,
		CreatedTime: now,
		CreatedDate: models.DateOf(now),
		OwnerID:     ownerID,
	})
	if errors.Is(err, storage.ErrOwnerNotFound) {
		return nil, ErrOwnerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	task, err := s.tasks.GetTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// CompleteTask sets status to true. Completing a completed task succeeds.
func (s *TaskService) CompleteTask(ctx context.Context, id int64) (*models.Task, error) {
	task, err := s.tasks.MarkTaskComplete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id int64) error {
	deleted, err := s.tasks.DeleteTask(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if !deleted {
		return ErrTaskNotFound
	}
	return nil
}

func (s *TaskService) TasksForOwnerOnDate(ctx context.Context, ownerID int64, date time.Time, filter models.TaskFilter) ([]*models.Task, error) {
	if filter.View == "" {
		filter.View = models.ViewAll
	}
	if !filter.View.Valid() {
		return nil, &validation.Error{Field: "view", Message: "must be one of all, pending, completed"}
	}
	if err := validation.ValidatePage(filter.Offset, filter.Limit, models.MaxListLimit); err != nil {
		return nil, err
	}
	if filter.Limit == 0 {
		filter.Limit = models.DefaultListLimit
	}

	tasks, err := s.tasks.ListTasks(ctx, ownerID, models.DateOf(date), filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// DailyProgress reports how many of the owner's tasks created on date are
// complete. Counts are taken from the returned tasks so the two always agree.
// A day without tasks has zero progress.
func (s *TaskService) DailyProgress(ctx context.Context, ownerID int64, date time.Time) (*models.Progress, error) {
	day := models.DateOf(date)

	tasks, err := s.tasks.DayTasks(ctx, ownerID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	completed := 0
	for _, task := range tasks {
		if task.Status {
			completed++
		}
	}

	return &models.Progress{
		Date:      day,
		Tasks:     tasks,
		Total:     len(tasks),
		Completed: completed,
		Percent:   models.Percentage(completed, len(tasks)),
	}, nil
}
