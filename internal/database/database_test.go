package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBackendFor(t *testing.T) {
	cases := map[string]Backend{
		"postgres://u:p@localhost:5432/trackit":   BackendPostgres,
		"postgresql://localhost/trackit":          BackendPostgres,
		"sqlite::memory:":                         BackendSQLite,
		"sqlite:trackit.db":                       BackendSQLite,
		"mongodb://localhost:27017":               BackendMongo,
		"mongodb+srv://cluster0.example.net/test": BackendMongo,
	}
	for url, want := range cases {
		got, err := BackendFor(url)
		require.NoError(t, err, url)
		assert.Equal(t, want, got, url)
	}

	_, err := BackendFor("mysql://localhost")
	assert.Error(t, err)
}

func TestNewConnectionMigratesSQLite(t *testing.T) {
	db, err := NewConnection(context.Background(), "sqlite::memory:", zap.NewNop().Sugar())
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(db))
	// running twice is a no-op
	require.NoError(t, RunMigrations(db))

	var tables []string
	require.NoError(t, db.Select(&tables,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'expenses') ORDER BY name`))
	assert.Equal(t, []string{"expenses", "users"}, tables)
}

func TestForeignKeysEnforced(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, RunMigrations(db))

	_, err = db.Exec(`INSERT INTO expenses (id, user_id, title, amount, category, date, created_at, updated_at)
		VALUES ('e1', 'nobody', 't', 1, 'c', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)
	assert.Error(t, err)
}

func TestNewConnectionRejectsMongo(t *testing.T) {
	_, err := NewConnection(context.Background(), "mongodb://localhost:27017", zap.NewNop().Sugar())
	assert.Error(t, err)
}
