package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

// Connect opens the user store for the given driver and checks it is
// reachable. sqlite3 takes a file path or file: URI, pgx a Postgres DSN.
func Connect(driver, dsn string) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch driver {
	case DriverSQLite:
		db, err = sqlx.Open(DriverSQLite, dsn)
		if err != nil {
			return nil, fmt.Errorf("db: failed to open sqlite: %w", err)
		}
	case DriverPostgres:
		cfg, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, fmt.Errorf("db: failed to parse DSN: %w", err)
		}
		// Fail fast on startup if PG is unreachable
		cfg.ConnectTimeout = 5 * time.Second
		db = sqlx.NewDb(stdlib.OpenDB(*cfg), DriverPostgres)
	default:
		return nil, fmt.Errorf("db: unsupported driver %q", driver)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db: failed to connect: %w", err)
	}

	// SQLite serialises writers anyway; one connection avoids SQLITE_BUSY
	// and keeps a private :memory: database alive.
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	var tmp int
	if err := db.QueryRow("SELECT 1").Scan(&tmp); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db: health check failed: %w", err)
	}

	return db, nil
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    password TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'user',
    avatar TEXT
)`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    password TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'user',
    avatar TEXT
)`

// EnsureSchema creates the users table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	ddl := sqliteSchema
	if db.DriverName() == DriverPostgres {
		ddl = postgresSchema
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("db: create users table: %w", err)
	}
	return nil
}
