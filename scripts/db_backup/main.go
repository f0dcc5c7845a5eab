package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/tomasfarkasovsky/trailhead/internal/config"
	"github.com/tomasfarkasovsky/trailhead/internal/db"
)

// db_backup writes a consistent snapshot of the sqlite store next to it, or
// to the path given as the first argument.
func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if cfg.Database.Driver != config.DriverSQLite {
		fmt.Fprintln(os.Stderr, "Backup error: only the sqlite store is supported; use mysqldump for mysql")
		os.Exit(1)
	}

	dst := fmt.Sprintf("%s.%s.bak", cfg.Database.Path, time.Now().UTC().Format("20060102T150405Z"))
	if len(os.Args) > 1 {
		dst = os.Args[1]
	}
	if _, err := os.Stat(dst); err == nil {
		fmt.Fprintf(os.Stderr, "Backup error: %s already exists\n", dst)
		os.Exit(1)
	}

	database, err := db.Open(ctx, cfg.Database, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Backup error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	// VACUUM INTO copies a transactionally consistent database file
	if _, err := database.Exec(ctx, `VACUUM INTO ?`, dst); err != nil {
		fmt.Fprintf(os.Stderr, "Backup error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Database backup completed: %s\n", dst)
}
