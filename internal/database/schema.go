package database

import (
	"context"
	_ "embed"
	"fmt"
)

var (
	//go:embed schema/postgres.sql
	PostgresSchema string

	//go:embed schema/sqlite.sql
	SQLiteSchema string
)

// Migrate creates the users and tasks tables on the primary if they are
// missing. It is safe to run on every start.
func (m *DBManager) Migrate(ctx context.Context) error {
	if _, err := m.Write().Exec(ctx, PostgresSchema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
