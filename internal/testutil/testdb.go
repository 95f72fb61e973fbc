package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/holdings/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestDB returns a private in-memory ledger with every migration applied.
// The handle is closed by the test's cleanup.
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err, "opening in-memory ledger")
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// NewTestUoW wraps database in the production unit of work, so service tests
// see real commits and rollbacks.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
