// Package testdb opens a migrated in-memory SQLite database for tests that
// exercise the GORM adapters and queries without a PostgreSQL server.
package testdb

import (
	"testing"

	"takeout/internal/adapters/out/postgres"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New returns a fresh database per call. A single connection keeps every
// session on the same in-memory database.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), postgres.Config())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, postgres.Migrate(db))
	return db
}
