package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/yigit/collegerecords/internal/db"
	"github.com/yigit/collegerecords/internal/pkg/logger"
)

//go:embed sql
var migrationFiles embed.FS

// Migrator manages database migrations
type Migrator struct {
	db    *db.Database
	files fs.FS
}

// NewMigrator creates a migrator reading the embedded migrations for the database's dialect
func NewMigrator(database *db.Database) *Migrator {
	return &Migrator{
		db:    database,
		files: migrationFiles,
	}
}

// ensureMigrationTableExists creates the migration tracking table if it doesn't exist
func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := m.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

// isMigrationApplied checks if a specific migration has already been applied
func (m *Migrator) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	query, args, err := m.db.Builder().
		Select("COUNT(*)").
		From("schema_migrations").
		Where(squirrel.Eq{"version": version}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build migration status query: %w", err)
	}

	var count int
	if err := m.db.QueryRowxContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return count > 0, nil
}

// applyMigration runs one migration file and records it in the same transaction
func (m *Migrator) applyMigration(ctx context.Context, name, content string) error {
	version := strings.Split(name, "_")[0]

	applied, err := m.isMigrationApplied(ctx, version)
	if err != nil {
		return err
	}
	if applied {
		logger.Debug().Str("migration", name).Msg("Migration already applied, skipping")
		return nil
	}

	return m.db.WithTransaction(ctx, func(ctx context.Context) error {
		conn := m.db.Conn(ctx)
		if _, err := conn.ExecContext(ctx, content); err != nil {
			return fmt.Errorf("error occurred during SQL migration %s: %w", name, err)
		}

		query, args, err := m.db.Builder().
			Insert("schema_migrations").
			Columns("version", "applied_at").
			Values(version, time.Now().UTC()).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build migration record query: %w", err)
		}
		if _, err := conn.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to record migration: %w", err)
		}

		logger.Info().Str("migration", name).Msg("Migration file successfully applied")
		return nil
	})
}

// Migrate applies every pending migration for the dialect in file name order
func (m *Migrator) Migrate(ctx context.Context) error {
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return err
	}

	dir := path.Join("sql", string(m.db.Dialect))
	entries, err := fs.ReadDir(m.files, dir)
	if err != nil {
		return fmt.Errorf("failed to read migration directory: %w", err)
	}

	var sqlFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			sqlFiles = append(sqlFiles, entry.Name())
		}
	}
	sort.Strings(sqlFiles)

	for _, name := range sqlFiles {
		content, err := fs.ReadFile(m.files, path.Join(dir, name))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", name, err)
		}
		if err := m.applyMigration(ctx, name, string(content)); err != nil {
			return err
		}
	}

	return nil
}
