package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/comments-api/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) *DB {
	t.Helper()
	cfg := &config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "nested", "comments.db")}
	db, err := NewSQLite(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func tableExists(t *testing.T, db *DB, name string) bool {
	t.Helper()
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&count)
	require.NoError(t, err)
	return count == 1
}

func TestNewSQLite_CreatesDirectory(t *testing.T) {
	db := openTestSQLite(t)

	assert.Equal(t, DialectSQLite, db.Dialect)
	assert.NoError(t, db.HealthCheck(context.Background()))
}

func TestRunMigrations_SQLite(t *testing.T) {
	db := openTestSQLite(t)

	require.NoError(t, db.RunMigrations())
	assert.True(t, tableExists(t, db, "comments"))

	// Second run is a no-op
	require.NoError(t, db.RunMigrations())
}

func TestMigrateDown_SQLite(t *testing.T) {
	db := openTestSQLite(t)

	require.NoError(t, db.RunMigrations())
	require.NoError(t, db.MigrateDown())
	assert.False(t, tableExists(t, db, "comments"))
}

func TestNewMigrator_UnknownDialect(t *testing.T) {
	db := &DB{Dialect: "oracle", log: zerolog.Nop()}

	_, err := db.newMigrator()
	assert.ErrorContains(t, err, "unsupported dialect")
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	for _, dialect := range []string{DialectPostgres, DialectSQLite} {
		entries, err := migrationsFS.ReadDir("migrations/" + dialect)
		require.NoError(t, err, dialect)
		assert.Len(t, entries, 2, "%s should ship one up and one down migration", dialect)
	}
}
