package db

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Migrate applies the embedded migrations for the connection's dialect.
// It creates a `schema_migrations` table to track applied migrations and applies
// any SQL files in `migrations/<driver>/` that have not yet been recorded.
func Migrate(ctx context.Context, d *DB, migrationFS fs.FS) (int, error) {
	// ensure migrations table exists
	if _, err := d.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version VARCHAR(191) PRIMARY KEY, applied BIGINT NOT NULL)`); err != nil {
		return 0, fmt.Errorf("ensure schema_migrations: %w", err)
	}

	migDir := path.Join("migrations", d.Driver())
	entries, err := fs.ReadDir(migrationFS, migDir)
	if err != nil {
		return 0, fmt.Errorf("read migrations dir: %w", err)
	}

	// collect .sql files and sort
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(strings.ToLower(name), ".sql") {
			files = append(files, name)
		}
	}
	sort.Strings(files)

	applied := 0
	for _, fname := range files {
		// use filename (without extension) as migration version key
		version := strings.TrimSuffix(fname, path.Ext(fname))

		var count int
		row := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations WHERE version = ?`, version)
		if err := row.Scan(&count); err != nil {
			return applied, fmt.Errorf("scan migration applied count: %w", err)
		}
		if count > 0 {
			continue
		}

		b, err := fs.ReadFile(migrationFS, path.Join(migDir, fname))
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", fname, err)
		}
		for _, stmt := range SplitStatements(string(b)) {
			if _, err := d.Exec(ctx, stmt); err != nil {
				return applied, fmt.Errorf("exec migration %s: %w", fname, err)
			}
		}

		if _, err := d.Exec(ctx, `INSERT INTO schema_migrations (version, applied) VALUES (?, ?)`, version, time.Now().UTC().Unix()); err != nil {
			return applied, fmt.Errorf("record migration %s: %w", fname, err)
		}
		d.logger.Info("migration applied", zap.String("version", version))
		applied++
	}

	return applied, nil
}

// SplitStatements splits a migration script on statement-terminating semicolons
// (a ';' at the end of a line). Blank statements and comment-only lines are dropped.
func SplitStatements(script string) []string {
	var (
		out []string
		cur strings.Builder
	)
	flush := func() {
		s := strings.TrimSpace(cur.String())
		if s != "" {
			out = append(out, s)
		}
		cur.Reset()
	}

	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "--") {
			continue
		}
		if strings.HasSuffix(trimmed, ";") {
			cur.WriteString(strings.TrimSuffix(trimmed, ";"))
			flush()
			continue
		}
		cur.WriteString(line)
		cur.WriteString("\n")
	}
	flush()

	return out
}
