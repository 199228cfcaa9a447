package database

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite driver
)

//go:embed migrations/*.sql
var migrations embed.FS

const sqlitePrefix = "sqlite:"

// Backend names the store selected by a connection string.
type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendSQLite   Backend = "sqlite"
	BackendMongo    Backend = "mongo"
)

// BackendFor picks the store from the URL scheme.
func BackendFor(databaseURL string) (Backend, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return BackendPostgres, nil
	case strings.HasPrefix(databaseURL, sqlitePrefix):
		return BackendSQLite, nil
	case strings.HasPrefix(databaseURL, "mongodb://"), strings.HasPrefix(databaseURL, "mongodb+srv://"):
		return BackendMongo, nil
	}
	return "", fmt.Errorf("unsupported database url scheme: %q", databaseURL)
}

// NewConnection opens a SQL connection for a postgres:// or sqlite: URL and
// waits for it to answer a ping.
func NewConnection(ctx context.Context, databaseURL string, log *zap.SugaredLogger) (*sqlx.DB, error) {
	backend, err := BackendFor(databaseURL)
	if err != nil {
		return nil, err
	}

	var db *sqlx.DB
	switch backend {
	case BackendPostgres:
		db, err = sqlx.Open("postgres", databaseURL)
	case BackendSQLite:
		db, err = OpenSQLite(strings.TrimPrefix(databaseURL, sqlitePrefix))
	default:
		return nil, fmt.Errorf("%s is not a SQL backend", backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	backoff := retry.WithMaxRetries(5, retry.NewExponential(500*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			log.Warnw("database not ready", "backend", backend, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Infow("connected to database", "backend", backend)
	return db, nil
}

// OpenSQLite opens a SQLite database at path with foreign keys enforced.
// ":memory:" is pinned to one connection so every query sees the same database.
func OpenSQLite(path string) (*sqlx.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
	}
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// sqlx has no bindvar entry for the modernc driver name
	db = sqlx.NewDb(db.DB, "sqlite3")
	if strings.HasPrefix(path, ":memory:") {
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// RunMigrations applies the embedded goose migrations
func RunMigrations(db *sqlx.DB) error {
	goose.SetBaseFS(migrations)

	dialect := "postgres"
	if db.DriverName() == "sqlite3" {
		dialect = "sqlite3"
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(db.DB, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
