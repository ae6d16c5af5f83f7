package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Varun5711/tasktracker/internal/auth"
	"github.com/Varun5711/tasktracker/internal/cache"
	"github.com/Varun5711/tasktracker/internal/models"
	"github.com/Varun5711/tasktracker/internal/storage"
	"github.com/Varun5711/tasktracker/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store *storage.MemoryStore
	users *UserService
	auth  *AuthService
	tasks *TaskService
	jwt   *auth.JWTManager
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store: storage.NewMemoryStore(),
		now:   time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }

	hasher := auth.NewBcryptHasher(4)
	f.jwt = auth.NewJWTManager("test-secret", 30*time.Minute).WithIssuer("task-service").WithClock(clock)
	f.users = NewUserService(f.store, hasher)
	f.auth = NewAuthService(f.store, hasher, f.jwt, cache.NewUserCache(16, nil, time.Hour))
	f.tasks = NewTaskService(f.store, f.store, clock)
	return f
}

func (f *fixture) register(t *testing.T, email string) *models.User {
	t.Helper()
	user, err := f.users.Register(context.Background(), email, "password123")
	require.NoError(t, err)
	return user
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.users.Register(ctx, "a@x.io", "password123")
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", user.Email)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NotZero(t, user.ID)

	_, err = f.users.Register(ctx, "a@x.io", "otherpassword")
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// case differs, so it is a different account
	other, err := f.users.Register(ctx, "A@x.io", "password123")
	require.NoError(t, err)
	assert.NotEqual(t, user.ID, other.ID)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name     string
		email    string
		password string
		field    string
	}{
		{name: "empty email", email: "", password: "password123", field: "email"},
		{name: "malformed email", email: "not-an-email", password: "password123", field: "email"},
		{name: "short password", email: "a@x.io", password: "short", field: "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.users.Register(context.Background(), tt.email, tt.password)
			var verr *validation.Error
			require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestGetUser(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "a@x.io")

	got, err := f.users.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = f.users.GetUser(context.Background(), user.ID+100)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "a@x.io")

	got, session, err := f.auth.Login(ctx, "a@x.io", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, f.now.Add(30*time.Minute).Unix(), session.ExpiresAt.Unix())

	_, _, err = f.auth.Login(ctx, "a@x.io", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = f.auth.Login(ctx, "nobody@x.io", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = f.auth.Login(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResolveSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "a@x.io")

	_, session, err := f.auth.Login(ctx, "a@x.io", "password123")
	require.NoError(t, err)

	resolved, err := f.auth.ResolveSession(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
	assert.Empty(t, resolved.PasswordHash)

	// second lookup is served from the cache
	resolved, err = f.auth.ResolveSession(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	_, err = f.auth.ResolveSession(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidSession)

	f.now = f.now.Add(31 * time.Minute)
	_, err = f.auth.ResolveSession(ctx, session.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestResolveSession_UnknownUser(t *testing.T) {
	f := newFixture(t)

	token, _, err := f.jwt.GenerateToken(42, "ghost@x.io")
	require.NoError(t, err)

	_, err = f.auth.ResolveSession(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestCreateTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "a@x.io")

	task, err := f.tasks.CreateTask(ctx, user.ID, "  write report ")
	require.NoError(t, err)
	assert.Equal(t, "write report", task.Title)
	assert.False(t, task.Status)
	assert.Equal(t, user.ID, task.OwnerID)
	assert.True(t, task.CreatedTime.Equal(f.now))
	assert.Equal(t, "2024-03-15", models.FormatDate(task.CreatedDate))

	_, err = f.tasks.CreateTask(ctx, user.ID+100, "orphan")
	assert.ErrorIs(t, err, ErrOwnerNotFound)

	_, err = f.tasks.CreateTask(ctx, user.ID, "   ")
	var verr *validation.Error
	assert.True(t, errors.As(err, &verr))
}

func TestCompleteTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "a@x.io")

	task, err := f.tasks.CreateTask(ctx, user.ID, "a")
	require.NoError(t, err)

	done, err := f.tasks.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, done.Status)

	// completing twice is not an error
	done, err = f.tasks.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, done.Status)

	_, err = f.tasks.CompleteTask(ctx, task.ID+100)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestDeleteTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "a@x.io")

	task, err := f.tasks.CreateTask(ctx, user.ID, "a")
	require.NoError(t, err)

	require.NoError(t, f.tasks.DeleteTask(ctx, task.ID))

	_, err = f.tasks.GetTask(ctx, task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	assert.ErrorIs(t, f.tasks.DeleteTask(ctx, task.ID), ErrTaskNotFound)
}

func TestDailyProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "a@x.io")
	other := f.register(t, "b@x.io")

	progress, err := f.tasks.DailyProgress(ctx, user.ID, f.now)
	require.NoError(t, err)
	assert.Equal(t, 0, progress.Total)
	assert.Equal(t, 0.0, progress.Percent)
	assert.Empty(t, progress.Tasks)

	var ids []int64
	for _, title := range []string{"a", "b", "c", "d"} {
		task, err := f.tasks.CreateTask(ctx, user.ID, title)
		require.NoError(t, err)
		ids = append(ids, task.ID)
	}
	_, err = f.tasks.CreateTask(ctx, other.ID, "not mine")
	require.NoError(t, err)

	_, err = f.tasks.CompleteTask(ctx, ids[0])
	require.NoError(t, err)

	progress, err = f.tasks.DailyProgress(ctx, user.ID, f.now)
	require.NoError(t, err)
	assert.Equal(t, 4, progress.Total)
	assert.Equal(t, 1, progress.Completed)
	assert.Equal(t, 25.0, progress.Percent)
	assert.Len(t, progress.Tasks, 4)

	for _, id := range ids[1:] {
		_, err = f.tasks.CompleteTask(ctx, id)
		require.NoError(t, err)
	}
	progress, err = f.tasks.DailyProgress(ctx, user.ID, f.now)
	require.NoError(t, err)
	assert.Equal(t, 100.0, progress.Percent)

	// a different day has nothing
	progress, err = f.tasks.DailyProgress(ctx, user.ID, f.now.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, progress.Total)
	assert.Equal(t, 0.0, progress.Percent)
}

func TestDailyProgress_ListsEveryTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "busy@x.io")

	count := models.MaxListLimit + 50
	for i := 0; i < count; i++ {
		task, err := f.tasks.CreateTask(ctx, user.ID, fmt.Sprintf("task %d", i))
		require.NoError(t, err)
		if i%3 == 0 {
			_, err = f.tasks.CompleteTask(ctx, task.ID)
			require.NoError(t, err)
		}
	}

	progress, err := f.tasks.DailyProgress(ctx, user.ID, f.now)
	require.NoError(t, err)
	assert.Equal(t, count, progress.Total)
	assert.Len(t, progress.Tasks, progress.Total)
	assert.Equal(t, 50, progress.Completed)

	completed := 0
	for _, task := range progress.Tasks {
		if task.Status {
			completed++
		}
	}
	assert.Equal(t, progress.Completed, completed)
	assert.InDelta(t, 100.0/3, progress.Percent, 0.001)
}

func TestTasksForOwnerOnDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "a@x.io")

	first, err := f.tasks.CreateTask(ctx, user.ID, "yesterday's")
	require.NoError(t, err)
	f.now = f.now.AddDate(0, 0, 1)
	for _, title := range []string{"a", "b", "c"} {
		_, err := f.tasks.CreateTask(ctx, user.ID, title)
		require.NoError(t, err)
	}

	today, err := f.tasks.TasksForOwnerOnDate(ctx, user.ID, f.tasks.Today(), models.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, today, 3)
	assert.Equal(t, "a", today[0].Title)

	yesterday, err := f.tasks.TasksForOwnerOnDate(ctx, user.ID, f.now.AddDate(0, 0, -1), models.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, yesterday, 1)
	assert.Equal(t, first.ID, yesterday[0].ID)

	_, err = f.tasks.CompleteTask(ctx, today[1].ID)
	require.NoError(t, err)

	pending, err := f.tasks.TasksForOwnerOnDate(ctx, user.ID, f.now, models.TaskFilter{View: models.ViewPending})
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	completed, err := f.tasks.TasksForOwnerOnDate(ctx, user.ID, f.now, models.TaskFilter{View: models.ViewCompleted})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "b", completed[0].Title)

	page, err := f.tasks.TasksForOwnerOnDate(ctx, user.ID, f.now, models.TaskFilter{Offset: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "b", page[0].Title)

	_, err = f.tasks.TasksForOwnerOnDate(ctx, user.ID, f.now, models.TaskFilter{View: "someday"})
	var verr *validation.Error
	assert.True(t, errors.As(err, &verr))

	_, err = f.tasks.TasksForOwnerOnDate(ctx, user.ID, f.now, models.TaskFilter{Limit: models.MaxListLimit + 1})
	assert.True(t, errors.As(err, &verr))
}

func TestToday_UsesClockLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	svc := NewTaskService(storage.NewMemoryStore(), storage.NewMemoryStore(), func() time.Time {
		return time.Date(2024, 3, 15, 20, 0, 0, 0, time.UTC).In(loc)
	})

	assert.Equal(t, "2024-03-16", models.FormatDate(svc.Today()))
}
