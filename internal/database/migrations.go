package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// RunMigrations executes the SQL files under migrationsPath/<dialect subdir>
// that have not been recorded in the migrations table yet.
func (db *DB) RunMigrations(ctx context.Context, migrationsPath string, logger *zap.Logger) error {
	if _, err := db.DB.ExecContext(ctx, db.Dialect.MigrationsTable); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	dir := filepath.Join(migrationsPath, db.Dialect.MigrationsSubdir())
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}
	sort.Strings(files)

	for _, file := range files {
		filename := filepath.Base(file)

		hasRun, err := db.hasMigrationRun(ctx, filename)
		if err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if hasRun {
			continue
		}

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", filename, err)
		}

		// The migrations row commits with the file. MySQL DDL is not rolled back.
		err = db.InTx(ctx, func(tx *Tx) error {
			if err := executeMigration(ctx, tx, db.Dialect, string(content)); err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", filename, err)
			}
			if _, err := tx.ExecContext(ctx, "INSERT INTO migrations (filename) VALUES (?)", filename); err != nil {
				return fmt.Errorf("failed to record migration %s: %w", filename, err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		logger.Info("migration completed", zap.String("file", filename))
	}

	return nil
}

func (db *DB) hasMigrationRun(ctx context.Context, filename string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM migrations WHERE filename = ?", filename).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func executeMigration(ctx context.Context, tx *Tx, dialect *Dialect, content string) error {
	if !dialect.SplitStatements {
		_, err := tx.Tx.ExecContext(ctx, content)
		return err
	}

	for _, stmt := range splitSQL(content) {
		if _, err := tx.Tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// splitSQL breaks a migration file on statement terminators. Migration
// files must not contain semicolons inside string literals.
func splitSQL(content string) []string {
	var statements []string
	for _, part := range strings.Split(content, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}
