package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// Migrate applies the embedded migrations in filename order. A
// `schema_migrations` table tracks what has already been applied so
// restarting the dev store is cheap.
func Migrate(ctx context.Context, d *DB, migrationFS embed.FS) error {
	if _, err := d.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	files, err := sqlFiles(migrationFS, "migrations")
	if err != nil {
		return err
	}

	for _, fname := range files {
		// filename without extension is the migration version key
		version := strings.TrimSuffix(fname, path.Ext(fname))

		var count int
		row := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations WHERE version = ?`, version)
		if err := row.Scan(&count); err != nil {
			return fmt.Errorf("scan migration applied count: %w", err)
		}
		if count > 0 {
			continue
		}

		b, err := fs.ReadFile(migrationFS, path.Join("migrations", fname))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", fname, err)
		}
		if _, err := d.Exec(ctx, string(b)); err != nil {
			return fmt.Errorf("exec migration %s: %w", fname, err)
		}

		if _, err := d.Exec(ctx, `INSERT INTO schema_migrations (version, applied) VALUES (?, strftime('%s','now'))`, version); err != nil {
			return fmt.Errorf("record migration %s: %w", fname, err)
		}
	}

	return nil
}

// Seed applies the embedded seed files. Seeds use INSERT OR IGNORE so
// re-running them is harmless.
func Seed(ctx context.Context, d *DB, seedFS embed.FS) error {
	files, err := sqlFiles(seedFS, "seed")
	if err != nil {
		return err
	}

	for _, fname := range files {
		b, err := fs.ReadFile(seedFS, path.Join("seed", fname))
		if err != nil {
			return fmt.Errorf("read seed %s: %w", fname, err)
		}
		if _, err := d.Exec(ctx, string(b)); err != nil {
			return fmt.Errorf("exec seed %s: %w", fname, err)
		}
	}

	return nil
}

func sqlFiles(fsys embed.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read %s dir: %w", dir, err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}
