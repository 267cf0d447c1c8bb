package database

import (
	"context"
	"embed"
	"fmt"
	"sort"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies any pending SQL migrations in filename order, tracking
// applied versions in schema_migrations. It returns the versions applied
// during this call.
func (db *DB) Migrate(ctx context.Context) ([]string, error) {
	_, err := db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var versions []string
	for _, entry := range entries {
		if !entry.IsDir() {
			versions = append(versions, entry.Name())
		}
	}
	sort.Strings(versions)

	var applied []string
	for _, version := range versions {
		done, err := db.applyMigration(ctx, version)
		if err != nil {
			return applied, err
		}
		if done {
			applied = append(applied, version)
		}
	}
	return applied, nil
}

func (db *DB) applyMigration(ctx context.Context, version string) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)",
		version,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	if exists {
		return false, nil
	}

	content, err := migrationsFS.ReadFile("migrations/" + version)
	if err != nil {
		return false, fmt.Errorf("failed to read migration %s: %w", version, err)
	}

	if _, err := db.Pool.Exec(ctx, string(content)); err != nil {
		return false, fmt.Errorf("failed to execute migration %s: %w", version, err)
	}

	if _, err := db.Pool.Exec(ctx,
		"INSERT INTO schema_migrations (version) VALUES ($1)", version,
	); err != nil {
		return false, fmt.Errorf("failed to record migration %s: %w", version, err)
	}
	return true, nil
}
