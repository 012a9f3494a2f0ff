package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"RoboticsDaily/internal/domain"
)

//go:embed migrations/*.up.sql
var migrationFS embed.FS

// Migrate applies pending embedded migrations in name order and seeds the category vocabulary.
// It is safe to run repeatedly.
func Migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name       TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	names, err := fs.Glob(migrationFS, "migrations/*.up.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := applyMigration(ctx, db, name); err != nil {
			return err
		}
	}

	return seedCategories(ctx, db)
}

func applyMigration(ctx context.Context, db *sql.DB, name string) error {
	var applied bool
	if err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`, name,
	).Scan(&applied); err != nil {
		return fmt.Errorf("check migration %s: %w", name, err)
	}
	if applied {
		return nil
	}

	script, err := migrationFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", name, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, string(script)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("apply migration %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, name); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record migration %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", name, err)
	}
	return nil
}

func seedCategories(ctx context.Context, db *sql.DB) error {
	insert := sq.Insert("categories").
		Columns("id", "name", "icon", "description").
		Suffix("ON CONFLICT (name) DO NOTHING").
		PlaceholderFormat(sq.Dollar)
	for _, c := range domain.Categories {
		insert = insert.Values(c.ID, c.Name, c.Icon, c.Description)
	}

	if _, err := insert.RunWith(db).ExecContext(ctx); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}

	// Keep the serial ahead of the explicit ids.
	if _, err := db.ExecContext(ctx,
		`SELECT setval(pg_get_serial_sequence('categories', 'id'), (SELECT MAX(id) FROM categories))`,
	); err != nil {
		return fmt.Errorf("sync category sequence: %w", err)
	}
	return nil
}
