package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // sqlite driver

	"github.com/Varun5711/tasktracker/internal/database"
	"github.com/Varun5711/tasktracker/internal/models"
)

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and applies
// the schema. Use ":memory:" for a throwaway database.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	// sqlite serializes writers anyway, and an in-memory database only
	// exists on the connection that created it
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, database.SQLiteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	const q = `SELECT id, email, password_hash FROM users WHERE id = ?`
	return s.getUser(ctx, q, id)
}

func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const q = `SELECT id, email, password_hash FROM users WHERE email = ?`
	return s.getUser(ctx, q, email)
}

func (s *SQLiteStore) getUser(ctx context.Context, q string, arg interface{}) (*models.User, error) {
	var user models.User

	err := s.db.QueryRowContext(ctx, q, arg).Scan(&user.ID, &user.Email, &user.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (s *SQLiteStore) CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error) {
	const q = `INSERT INTO users (email, password_hash) VALUES (?, ?)`

	res, err := s.db.ExecContext(ctx, q, email, passwordHash)
	if isConstraintError(err, "UNIQUE") {
		return nil, ErrDuplicateEmail
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read user id: %w", err)
	}

	return &models.User{ID: id, Email: email, PasswordHash: passwordHash}, nil
}

const sqliteTaskColumns = `id, title, status, created_time, created_date, owner_id`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSQLiteTask(row rowScanner) (*models.Task, error) {
	var (
		task        models.Task
		createdTime string
		createdDate string
	)

	if err := row.Scan(&task.ID, &task.Title, &task.Status, &createdTime, &createdDate, &task.OwnerID); err != nil {
		return nil, err
	}

	var err error
	task.CreatedTime, err = time.Parse(time.RFC3339Nano, createdTime)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_time: %w", err)
	}
	task.CreatedDate, err = models.ParseDate(createdDate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_date: %w", err)
	}

	return &task, nil
}

func (s *SQLiteStore) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	q := `SELECT ` + sqliteTaskColumns + ` FROM tasks WHERE id = ?`

	task, err := scanSQLiteTask(s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

func (s *SQLiteStore) ListTasks(ctx context.Context, ownerID int64, date time.Time, filter models.TaskFilter) ([]*models.Task, error) {
	filter = normalizeFilter(filter)

	q := `SELECT ` + sqliteTaskColumns + ` FROM tasks WHERE owner_id = ? AND created_date = ?`
	args := []interface{}{ownerID, models.FormatDate(date)}

	if filter.View != models.ViewAll {
		q += ` AND status = ?`
		args = append(args, filter.View == models.ViewCompleted)
	}

	q += ` ORDER BY created_time, id LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task, err := scanSQLiteTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return tasks, nil
}

func (s *SQLiteStore) DayTasks(ctx context.Context, ownerID int64, date time.Time) ([]*models.Task, error) {
	q := `SELECT ` + sqliteTaskColumns + ` FROM tasks WHERE owner_id = ? AND created_date = ? ORDER BY created_time, id`

	rows, err := s.db.QueryContext(ctx, q, ownerID, models.FormatDate(date))
	if err != nil {
		return nil, fmt.Errorf("failed to list day tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task, err := scanSQLiteTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return tasks, nil
}

func (s *SQLiteStore) CreateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	const q = `INSERT INTO tasks (title, status, created_time, created_date, owner_id) VALUES (?, ?, ?, ?, ?)`

	// fixed-width UTC timestamps keep ORDER BY created_time chronological
	createdTime := task.CreatedTime.UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
	res, err := s.db.ExecContext(ctx, q,
		task.Title,
		task.Status,
		createdTime,
		models.FormatDate(task.CreatedDate),
		task.OwnerID,
	)
	if isConstraintError(err, "FOREIGN KEY") {
		return nil, ErrOwnerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read task id: %w", err)
	}

	created := *task
	created.ID = id
	created.CreatedTime = task.CreatedTime.UTC()
	created.CreatedDate = models.DateOf(task.CreatedDate)
	return &created, nil
}

func (s *SQLiteStore) MarkTaskComplete(ctx context.Context, id int64) (*models.Task, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET status = 1 WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}

	return s.GetTask(ctx, id)
}

func (s *SQLiteStore) DeleteTask(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}

	return affected > 0, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func isConstraintError(err error, kind string) bool {
	return err != nil && strings.Contains(err.Error(), kind+" constraint failed")
}
