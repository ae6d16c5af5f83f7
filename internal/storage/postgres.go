package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Varun5711/tasktracker/internal/database"
	"github.com/Varun5711/tasktracker/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type PostgresStore struct {
	db *database.DBManager
}

func NewPostgresStore(db *database.DBManager) *PostgresStore {
	return &PostgresStore{db: db}
}

// withConn acquires a pooled connection for the duration of fn and always
// hands it back, whatever fn returns.
func withConn(ctx context.Context, pool *pgxpool.Pool, fn func(conn *pgxpool.Conn) error) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	return fn(conn)
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, email, password_hash
		FROM users
		WHERE id = $1
	`

	var user models.User
	err := withConn(ctx, s.db.Read(), func(conn *pgxpool.Conn) error {
		return conn.QueryRow(ctx, query, id).Scan(&user.ID, &user.Email, &user.PasswordHash)
	})

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, password_hash
		FROM users
		WHERE email = $1
	`

	var user models.User
	err := withConn(ctx, s.db.Read(), func(conn *pgxpool.Conn) error {
		return conn.QueryRow(ctx, query, email).Scan(&user.ID, &user.Email, &user.PasswordHash)
	})

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, email, password_hash
	`

	var user models.User
	err := withConn(ctx, s.db.Write(), func(conn *pgxpool.Conn) error {
		return conn.QueryRow(ctx, query, email, passwordHash).Scan(&user.ID, &user.Email, &user.PasswordHash)
	})

	if pgErrorCode(err) == pgUniqueViolation {
		return nil, ErrDuplicateEmail
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

const taskColumns = `id, title, status, created_time, created_date, owner_id`

func scanTask(row pgx.Row) (*models.Task, error) {
	var task models.Task
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Status,
		&task.CreatedTime,
		&task.CreatedDate,
		&task.OwnerID,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *PostgresStore) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	var task *models.Task
	err := withConn(ctx, s.db.Read(), func(conn *pgxpool.Conn) error {
		var scanErr error
		task, scanErr = scanTask(conn.QueryRow(ctx, query, id))
		return scanErr
	})

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

func (s *PostgresStore) ListTasks(ctx context.Context, ownerID int64, date time.Time, filter models.TaskFilter) ([]*models.Task, error) {
	filter = normalizeFilter(filter)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = $1 AND created_date = $2`
	args := []interface{}{ownerID, models.DateOf(date)}

	if filter.View != models.ViewAll {
		args = append(args, filter.View == models.ViewCompleted)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}

	args = append(args, filter.Limit, filter.Offset)
	query += ` ORDER BY created_time, id LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	tasks := make([]*models.Task, 0)
	err := withConn(ctx, s.db.Read(), func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			task, err := scanTask(rows)
			if err != nil {
				return fmt.Errorf("failed to scan row: %w", err)
			}
			tasks = append(tasks, task)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

func (s *PostgresStore) DayTasks(ctx context.Context, ownerID int64, date time.Time) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = $1 AND created_date = $2 ORDER BY created_time, id`

	tasks := make([]*models.Task, 0)
	err := withConn(ctx, s.db.Read(), func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, query, ownerID, models.DateOf(date))
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			task, err := scanTask(rows)
			if err != nil {
				return fmt.Errorf("failed to scan row: %w", err)
			}
			tasks = append(tasks, task)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list day tasks: %w", err)
	}

	return tasks, nil
}

func (s *PostgresStore) CreateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	query := `
		INSERT INTO tasks (title, status, created_time, created_date, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + taskColumns

	var created *models.Task
	err := withConn(ctx, s.db.Write(), func(conn *pgxpool.Conn) error {
		var scanErr error
		created, scanErr = scanTask(conn.QueryRow(ctx, query,
			task.Title,
			task.Status,
			task.CreatedTime,
			models.DateOf(task.CreatedDate),
			task.OwnerID,
		))
		return scanErr
	})

	if pgErrorCode(err) == pgForeignKeyViolation {
		return nil, ErrOwnerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return created, nil
}

func (s *PostgresStore) MarkTaskComplete(ctx context.Context, id int64) (*models.Task, error) {
	query := `UPDATE tasks SET status = TRUE WHERE id = $1 RETURNING ` + taskColumns

	var task *models.Task
	err := withConn(ctx, s.db.Write(), func(conn *pgxpool.Conn) error {
		var scanErr error
		task, scanErr = scanTask(conn.QueryRow(ctx, query, id))
		return scanErr
	})

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}

	return task, nil
}

func (s *PostgresStore) DeleteTask(ctx context.Context, id int64) (bool, error) {
	var affected int64
	err := withConn(ctx, s.db.Write(), func(conn *pgxpool.Conn) error {
		cmdTag, err := conn.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
		if err != nil {
			return err
		}
		affected = cmdTag.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}

	return affected > 0, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}

func (s *PostgresStore) Stats() map[string]interface{} {
	return s.db.Stats()
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
