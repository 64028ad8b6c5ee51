package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"smartedtech/internal/config"
)

// DB wraps the database connection with dialect support
type DB struct {
	*sql.DB
	Dialect *Dialect
}

// Open creates and configures a connection for the given dialect
func Open(dialect *Dialect, dialectConfig DialectConfig) (*DB, error) {
	dsn, err := dialect.DSN(dialectConfig)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := dialect.Configure(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure connection: %w", err)
	}

	return &DB{DB: db, Dialect: dialect}, nil
}

// Initialize opens a SQLite database at dbPath
func Initialize(dbPath string) (*DB, error) {
	return Open(SQLite, DialectConfig{Path: dbPath})
}

// InitializeWithConfig creates and configures the database connection based on config
func InitializeWithConfig(cfg *config.Config) (*DB, error) {
	dialect, dialectConfig, err := DialectFor(cfg.DatabaseType, cfg.DatabasePath, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return Open(dialect, dialectConfig)
}

// DialectFor resolves a database type name to its dialect and connection settings
func DialectFor(dbType, path, url string) (*Dialect, DialectConfig, error) {
	switch strings.ToLower(dbType) {
	case "postgres", "postgresql":
		return Postgres, DialectConfig{URL: url}, nil
	case "mysql":
		return MySQL, DialectConfig{URL: url}, nil
	case "sqlite", "sqlite3", "":
		return SQLite, DialectConfig{Path: path}, nil
	default:
		return nil, DialectConfig{}, fmt.Errorf("unsupported database type: %s", dbType)
	}
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// QueryContext executes a query with automatic placeholder rewriting
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.DB.QueryContext(ctx, db.Dialect.RewriteQuery(query), args...)
}

// QueryRowContext executes a query that returns a single row with automatic placeholder rewriting
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.DB.QueryRowContext(ctx, db.Dialect.RewriteQuery(query), args...)
}

// ExecContext executes a query that doesn't return rows with automatic placeholder rewriting
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.DB.ExecContext(ctx, db.Dialect.RewriteQuery(query), args...)
}
