// Package store implements the gateway on database/sql. The same schema and
// queries run on SQLite (local mode, tests) and PostgreSQL (hosted backend).
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/existflow/launchdeck/internal/gateway"
	"github.com/existflow/launchdeck/internal/logger"
)

// Supported database/sql driver names
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store is a gateway.Gateway backed by a SQL database
type Store struct {
	db     *sql.DB
	driver string
	log    *logger.Logger
	now    func() time.Time
}

var _ gateway.Gateway = (*Store)(nil)

// DefaultDBPath returns the default database path (~/.launchdeck/launchdeck.db)
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".launchdeck", "launchdeck.db"), nil
}

// Open connects to the database and runs migrations.
// For SQLite the dsn is a file path whose directory is created on demand.
func Open(driver, dsn string, log *logger.Logger) (*Store, error) {
	switch driver {
	case DriverSQLite:
		if err := ensureDir(dsn); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if driver == DriverSQLite {
		// one writer keeps the pragma on the only connection
		conn.SetMaxOpenConns(1)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if driver == DriverSQLite {
		if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	s := &Store{db: conn, driver: driver, log: log, now: time.Now}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Debug("database ready", logger.F("driver", driver))
	return s, nil
}

// OpenDefault opens the local SQLite database at the default path
func OpenDefault(log *logger.Logger) (*Store, error) {
	path, err := DefaultDBPath()
	if err != nil {
		return nil, err
	}
	return Open(DriverSQLite, path, log)
}

// Close releases the connection pool
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection, used by the health endpoint
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}

// rebind rewrites ? placeholders to $1..$n for postgres
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.rebind(query), args...)
}

func (s *Store) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, s.rebind(query), args...)
}

func (s *Store) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, s.rebind(query), args...)
}

// ResetAllUserData deletes the user's tasks, then milestones, then projects.
// Each delete stands alone; a failure leaves earlier deletes applied.
func (s *Store) ResetAllUserData(ctx context.Context, userID string) error {
	for _, table := range []string{"tasks", "milestones", "projects"} {
		if _, err := s.exec(ctx, "DELETE FROM "+table+" WHERE user_id = ?", userID); err != nil {
			return fmt.Errorf("failed to delete %s: %w", table, err)
		}
	}
	s.log.Info("user data reset", logger.F("user_id", userID))
	return nil
}

// Timestamps are stored as RFC3339 text so both dialects share one schema.

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatNullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func parseNullTime(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	t, err := parseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// affected maps a zero-row write to gateway.ErrNotFound
func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return gateway.ErrNotFound
	}
	return nil
}
