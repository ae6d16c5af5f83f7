package storage

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/Varun5711/tasktracker/internal/database"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres runs a throwaway postgres container. Docker is required, so
// the test only runs with POSTGRES_TESTCONTAINERS=true.
func startPostgres(t *testing.T) string {
	t.Helper()

	if os.Getenv("POSTGRES_TESTCONTAINERS") != "true" {
		t.Skip("Skipping PostgreSQL store test: POSTGRES_TESTCONTAINERS not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "tasks",
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort("5432/tcp"),
		),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mappedPort, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)
	port, err := strconv.Atoi(mappedPort.Port())
	require.NoError(t, err)

	return fmt.Sprintf("postgresql://test:test@%s:%d/tasks?sslmode=disable", host, port)
}

func TestPostgresStore(t *testing.T) {
	dsn := startPostgres(t)
	ctx := context.Background()

	db, err := database.NewDBManager(ctx, database.Config{PrimaryDSN: dsn, MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(ctx))

	runStoreContract(t, func(t *testing.T) Store {
		_, err := db.Write().Exec(ctx, `TRUNCATE tasks, users RESTART IDENTITY`)
		require.NoError(t, err)
		return &PostgresStore{db: db}
	})
}
