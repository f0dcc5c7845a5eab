package db_test

import (
	"context"
	"testing"

	dbfs "github.com/tomasfarkasovsky/trailhead/db"
	"github.com/tomasfarkasovsky/trailhead/internal/config"
	"github.com/tomasfarkasovsky/trailhead/internal/db"
)

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()

	d, err := db.New(ctx, config.DriverSQLite, memDSN(t), nil)
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	defer d.Close()

	n, err := db.Migrate(ctx, d, dbfs.Migrations)
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if n < 3 {
		t.Fatalf("expected at least 3 migrations applied, got %d", n)
	}

	n, err = db.Migrate(ctx, d, dbfs.Migrations)
	if err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected second migrate to apply nothing, applied %d", n)
	}

	for _, table := range []string{"users", "certifications", "user_certifications", "trailhead_profiles", "sync_runs"} {
		var name string
		r := d.QueryRow(ctx, `SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table)
		if err := r.Scan(&name); err != nil {
			t.Fatalf("expected %s table exists: %v", table, err)
		}
	}

	var view string
	if err := d.QueryRow(ctx, `SELECT name FROM sqlite_master WHERE type='view' AND name='v_user_certification_stats'`).Scan(&view); err != nil {
		t.Fatalf("expected stats view exists: %v", err)
	}
}

func TestSplitStatements(t *testing.T) {
	script := "-- header\nCREATE TABLE a (\n  id INTEGER\n);\n\nCREATE VIEW v AS\nSELECT strftime('%Y', 'now') AS y;\n"
	stmts := db.SplitStatements(script)
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d: %#v", len(stmts), stmts)
	}
	if stmts[0] != "CREATE TABLE a (\n  id INTEGER\n)" {
		t.Fatalf("unexpected first statement %q", stmts[0])
	}
}
