package database

import (
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect holds what differs between the supported SQL backends. Name
// doubles as the migrations subdirectory.
type Dialect struct {
	Name            string
	Driver          string
	NumberedParams  bool
	SplitStatements bool
	MaxOpenConns    int
	Pragmas         []string
	MigrationsTable string
	dsn             func(DialectConfig) (string, error)
}

// DialectConfig holds the connection target. SQLite uses Path, the
// server databases use URL.
type DialectConfig struct {
	Path string
	URL  string
}

var (
	SQLite = &Dialect{
		Name:         "sqlite",
		Driver:       "sqlite3",
		MaxOpenConns: 10,
		// WAL lets the session purge run alongside request reads
		Pragmas: []string{"PRAGMA journal_mode=WAL;"},
		MigrationsTable: `CREATE TABLE IF NOT EXISTS migrations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			filename TEXT UNIQUE NOT NULL,
			executed_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		dsn: func(c DialectConfig) (string, error) {
			if c.Path == "" {
				return "", fmt.Errorf("sqlite needs DB_PATH")
			}
			return c.Path + "?_busy_timeout=5000", nil
		},
	}

	Postgres = &Dialect{
		Name:           "postgres",
		Driver:         "postgres",
		NumberedParams: true,
		MaxOpenConns:   25,
		MigrationsTable: `CREATE TABLE IF NOT EXISTS migrations (
			id BIGSERIAL PRIMARY KEY,
			filename TEXT UNIQUE NOT NULL,
			executed_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`,
		dsn: serverDSN,
	}

	// MySQL splits migration files; the driver rejects multi-statement Exec
	MySQL = &Dialect{
		Name:            "mysql",
		Driver:          "mysql",
		SplitStatements: true,
		MaxOpenConns:    25,
		MigrationsTable: `CREATE TABLE IF NOT EXISTS migrations (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			filename VARCHAR(255) UNIQUE NOT NULL,
			executed_at DATETIME(6) DEFAULT CURRENT_TIMESTAMP(6)
		)`,
		dsn: mysqlDSN,
	}
)

func serverDSN(c DialectConfig) (string, error) {
	if c.URL == "" {
		return "", fmt.Errorf("DATABASE_URL is required")
	}
	return c.URL, nil
}

// mysqlDSN forces parseTime and UTC so session timestamps scan into time.Time
func mysqlDSN(c DialectConfig) (string, error) {
	if c.URL == "" {
		return "", fmt.Errorf("DATABASE_URL is required")
	}
	cfg, err := mysql.ParseDSN(c.URL)
	if err != nil {
		return "", fmt.Errorf("invalid mysql DSN: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}

// DSN returns the data source name passed to sql.Open
func (d *Dialect) DSN(c DialectConfig) (string, error) {
	return d.dsn(c)
}

// MigrationsSubdir is the directory under MIGRATIONS_PATH read for this dialect
func (d *Dialect) MigrationsSubdir() string {
	return d.Name
}

// RewriteQuery converts ? placeholders to $1, $2... where the driver needs it
func (d *Dialect) RewriteQuery(query string) string {
	if !d.NumberedParams {
		return query
	}
	counter := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(string) string {
		counter++
		return "$" + strconv.Itoa(counter)
	})
}

// Configure applies pool limits and connection pragmas
func (d *Dialect) Configure(db *sql.DB) error {
	db.SetMaxOpenConns(d.MaxOpenConns)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(time.Minute)

	for _, pragma := range d.Pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return err
		}
	}
	return nil
}

var placeholderRegexp = regexp.MustCompile(`\?`)
