package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate applies every embedded migration that has not been applied yet.
func (db *DB) Migrate(ctx context.Context, logger *slog.Logger) error {
	return RunMigrations(ctx, db.pool, migrationFiles, logger)
}

// RunMigrations executes the .sql files of fsys in name order, one transaction per file,
// recording each in schema_migrations.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	if err := createMigrationsTable(ctx, pool); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := getAppliedMigrations(ctx, pool)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	migrations, err := listMigrations(fsys)
	if err != nil {
		return err
	}

	for _, migration := range pendingMigrations(migrations, applied) {
		logger.Info("applying migration", "migration", migration.name)

		content, err := fs.ReadFile(fsys, migration.path)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", migration.name, err)
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin transaction for %s: %w", migration.name, err)
		}

		if _, err := tx.Exec(ctx, string(content)); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("failed to execute migration %s: %w", migration.name, err)
		}

		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, migration.name); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("failed to record migration %s: %w", migration.name, err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("failed to commit migration %s: %w", migration.name, err)
		}

		logger.Info("migration applied", "migration", migration.name)
	}

	return nil
}

type migrationFile struct {
	name string
	path string
}

// listMigrations returns the .sql files of fsys sorted by name, searching the root
// and a migrations/ directory.
func listMigrations(fsys fs.FS) ([]migrationFile, error) {
	var files []migrationFile
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".sql") {
			return nil
		}
		files = append(files, migrationFile{name: d.Name(), path: path})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })
	return files, nil
}

func pendingMigrations(all []migrationFile, applied map[string]bool) []migrationFile {
	var pending []migrationFile
	for _, m := range all {
		if applied[m.name] {
			continue
		}
		pending = append(pending, m)
	}
	return pending
}

func createMigrationsTable(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`)
	return err
}

func getAppliedMigrations(ctx context.Context, pool *pgxpool.Pool) (map[string]bool, error) {
	rows, err := pool.Query(ctx, `SELECT name FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

// MigrateFromURL connects, runs the embedded migrations and disconnects.
func MigrateFromURL(ctx context.Context, databaseURL string, logger *slog.Logger) error {
	db, err := Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Migrate(ctx, logger)
}
