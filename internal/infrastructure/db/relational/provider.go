// Package relational is the bun-backed credential and catalog store. The
// same code runs against PostgreSQL in production and SQLite in tests and
// local development; the dialect is picked from the DSN.
package relational

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/storefront/commerce-api/internal/infrastructure/db/relational/models"
)

// Kind names the backing database engine.
type Kind string

const (
	KindPostgres Kind = "postgres"
	KindSQLite   Kind = "sqlite"
)

const pingTimeout = 5 * time.Second

// DetectKind maps a DSN to an engine. Anything that is not a postgres URL
// is treated as a SQLite path or file: URI.
func DetectKind(dsn string) Kind {
	switch {
	case strings.HasPrefix(dsn, "postgres://"),
		strings.HasPrefix(dsn, "postgresql://"),
		strings.HasPrefix(dsn, "unix://"):
		return KindPostgres
	default:
		return KindSQLite
	}
}

// Open connects to dsn, pings it and registers the models.
func Open(ctx context.Context, dsn string) (*bun.DB, error) {
	var (
		db  *bun.DB
		err error
	)
	switch DetectKind(dsn) {
	case KindPostgres:
		db, err = openPostgres(ctx, dsn)
	default:
		db, err = openSQLite(ctx, dsn)
	}
	if err != nil {
		return nil, err
	}
	models.Register(db)
	return db, nil
}

func openPostgres(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	sqldb.SetMaxOpenConns(25)
	sqldb.SetMaxIdleConns(25)
	sqldb.SetConnMaxIdleTime(5 * time.Minute)

	db := bun.NewDB(sqldb, pgdialect.New())
	if err := ping(ctx, db); err != nil {
		_ = sqldb.Close()
		return nil, err
	}
	return db, nil
}

func openSQLite(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection: SQLite allows a single writer, and the PRAGMAs below
	// are per connection.
	sqldb.SetMaxOpenConns(1)
	sqldb.SetConnMaxLifetime(0)
	sqldb.SetConnMaxIdleTime(0)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = sqldb.Close()
			return nil, fmt.Errorf("sqlite %q: %w", pragma, err)
		}
	}
	if err := ping(ctx, db); err != nil {
		_ = sqldb.Close()
		return nil, err
	}
	return db, nil
}

func ping(ctx context.Context, db *bun.DB) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// Close tolerates a nil db.
func Close(db *bun.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}
