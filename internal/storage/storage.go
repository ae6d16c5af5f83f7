package storage

import (
	"context"
	"errors"
	"time"

	"github.com/Varun5711/tasktracker/internal/models"
)

var (
	// ErrDuplicateEmail is returned by CreateUser when the email is taken.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrOwnerNotFound is returned by CreateTask when owner_id does not
	// reference a user.
	ErrOwnerNotFound = errors.New("task owner does not exist")
)

// Store persists users and tasks. Lookups report absence as a nil result
// with a nil error. Every write commits before returning.
type Store interface {
	UserStore
	TaskStore

	Ping(ctx context.Context) error
	Close() error
}

type UserStore interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error)
}

type TaskStore interface {
	GetTask(ctx context.Context, id int64) (*models.Task, error)
	ListTasks(ctx context.Context, ownerID int64, date time.Time, filter models.TaskFilter) ([]*models.Task, error)
	// DayTasks returns every task the owner created on date, unpaged, in
	// listing order, from a single read.
	DayTasks(ctx context.Context, ownerID int64, date time.Time) ([]*models.Task, error)
	CreateTask(ctx context.Context, task *models.Task) (*models.Task, error)
	MarkTaskComplete(ctx context.Context, id int64) (*models.Task, error)
	DeleteTask(ctx context.Context, id int64) (bool, error)
}

func normalizeFilter(filter models.TaskFilter) models.TaskFilter {
	if !filter.View.Valid() {
		filter.View = models.ViewAll
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Limit <= 0 || filter.Limit > models.MaxListLimit {
		filter.Limit = models.DefaultListLimit
	}
	return filter
}
