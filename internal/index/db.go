// Package index mirrors the article registry into a SQL database for search.
// SQLite (cgo or pure Go) and Postgres are supported; the schema is managed
// by embedded goose migrations.
package index

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Supported database/sql driver names.
const (
	DriverSQLite3  = "sqlite3" // mattn/go-sqlite3, cgo
	DriverSQLite   = "sqlite"  // modernc.org/sqlite, pure Go
	DriverPostgres = "pgx"     // jackc/pgx stdlib
)

// Drivers lists every driver Open accepts.
var Drivers = []string{DriverSQLite3, DriverSQLite, DriverPostgres}

//go:embed migrations/*.sql
var embedMigrations embed.FS

// goose keeps its base FS, dialect and logger in package globals.
var gooseMu sync.Mutex

// DB wraps a sql.DB with index-specific operations.
type DB struct {
	conn   *sql.DB
	driver string
	sb     sq.StatementBuilderType
}

// Open connects to the database, applies pending migrations and returns
// the index.
func Open(ctx context.Context, driver, dsn string, logger *slog.Logger) (*DB, error) {
	var (
		placeholder sq.PlaceholderFormat = sq.Question
		dialect                          = "sqlite3"
	)
	switch driver {
	case DriverSQLite3, DriverSQLite:
		dsn = sqliteDSN(driver, dsn)
	case DriverPostgres:
		placeholder = sq.Dollar
		dialect = "postgres"
	default:
		return nil, fmt.Errorf("index: unsupported driver %q", driver)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if strings.Contains(dsn, ":memory:") {
		// Every new connection to :memory: is a fresh, empty database.
		conn.SetMaxOpenConns(1)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if err := migrate(ctx, conn, dialect, logger); err != nil {
		conn.Close()
		return nil, err
	}

	return &DB{
		conn:   conn,
		driver: driver,
		sb:     sq.StatementBuilder.PlaceholderFormat(placeholder),
	}, nil
}

// sqliteDSN adds WAL and busy timeout settings unless the caller already
// passed query parameters.
func sqliteDSN(driver, dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn
	}
	if driver == DriverSQLite {
		return dsn + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	return dsn + "?_journal_mode=WAL&_busy_timeout=5000"
}

func migrate(ctx context.Context, conn *sql.DB, dialect string, logger *slog.Logger) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(gooseLogger{logger: logger})

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("index: set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, conn, "migrations"); err != nil {
		return fmt.Errorf("index: run migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, conn)
	if err != nil {
		return fmt.Errorf("index: get migration version: %w", err)
	}
	logger.Debug("index: migrations completed", slog.Int64("version", version))
	return nil
}

// gooseLogger routes goose output to slog; goose writes to stdout by
// default, which the MCP stdio transport owns.
type gooseLogger struct {
	logger *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
	os.Exit(1)
}

// Driver returns the database/sql driver name the index was opened with.
func (db *DB) Driver() string {
	return db.driver
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
