package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Varun5711/tasktracker/internal/models"
)

type MemoryStore struct {
	mu         sync.RWMutex
	users      map[int64]*models.User
	emails     map[string]int64
	tasks      map[int64]*models.Task
	nextUserID int64
	nextTaskID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:  make(map[int64]*models.User),
		emails: make(map[string]int64),
		tasks:  make(map[int64]*models.Task),
	}
}

func (s *MemoryStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	id, exists := s.emails[email]
	s.mu.RUnlock()

	if !exists {
		return nil, nil
	}
	return s.GetUserByID(ctx, id)
}

func (s *MemoryStore) CreateUser(_ context.Context, email, passwordHash string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.emails[email]; exists {
		return nil, ErrDuplicateEmail
	}

	s.nextUserID++
	user := &models.User{ID: s.nextUserID, Email: email, PasswordHash: passwordHash}
	s.users[user.ID] = user
	s.emails[email] = user.ID

	copied := *user
	return &copied, nil
}

func (s *MemoryStore) GetTask(_ context.Context, id int64) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, exists := s.tasks[id]
	if !exists {
		return nil, nil
	}
	copied := *task
	return &copied, nil
}

func (s *MemoryStore) ListTasks(_ context.Context, ownerID int64, date time.Time, filter models.TaskFilter) ([]*models.Task, error) {
	filter = normalizeFilter(filter)
	matched := s.dayTasks(ownerID, date, filter.View)

	if filter.Offset >= len(matched) {
		return []*models.Task{}, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[filter.Offset:end], nil
}

func (s *MemoryStore) DayTasks(_ context.Context, ownerID int64, date time.Time) ([]*models.Task, error) {
	return s.dayTasks(ownerID, date, models.ViewAll), nil
}

// dayTasks copies the owner's tasks for date that match view, sorted by
// created_time then id.
func (s *MemoryStore) dayTasks(ownerID int64, date time.Time, view models.TaskView) []*models.Task {
	day := models.FormatDate(date)

	s.mu.RLock()
	matched := make([]*models.Task, 0)
	for _, task := range s.tasks {
		if task.OwnerID != ownerID || models.FormatDate(task.CreatedDate) != day {
			continue
		}
		if !view.Matches(task.Status) {
			continue
		}
		copied := *task
		matched = append(matched, &copied)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedTime.Equal(matched[j].CreatedTime) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedTime.Before(matched[j].CreatedTime)
	})
	return matched
}

func (s *MemoryStore) CreateTask(_ context.Context, task *models.Task) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[task.OwnerID]; !exists {
		return nil, ErrOwnerNotFound
	}

	s.nextTaskID++
	stored := *task
	stored.ID = s.nextTaskID
	stored.CreatedDate = models.DateOf(stored.CreatedDate)
	s.tasks[stored.ID] = &stored

	copied := stored
	return &copied, nil
}

func (s *MemoryStore) MarkTaskComplete(_ context.Context, id int64) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, exists := s.tasks[id]
	if !exists {
		return nil, nil
	}
	task.Status = true

	copied := *task
	return &copied, nil
}

func (s *MemoryStore) DeleteTask(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[id]; !exists {
		return false, nil
	}
	delete(s.tasks, id)
	return true, nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
