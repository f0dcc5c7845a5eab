package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/tomasfarkasovsky/trailhead/internal/config"
	"github.com/tomasfarkasovsky/trailhead/internal/db"
)

// db_restore replaces the sqlite store with the backup given as the first
// argument and checks the result.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: db_restore <backup-file>")
		os.Exit(2)
	}
	src := os.Args[1]

	cfg, err := config.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if cfg.Database.Driver != config.DriverSQLite {
		fmt.Fprintln(os.Stderr, "Restore error: only the sqlite store is supported")
		os.Exit(1)
	}
	dst := cfg.Database.Path

	if err := copyFile(src, dst); err != nil {
		fmt.Fprintf(os.Stderr, "Restore error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	database, err := db.Open(ctx, cfg.Database, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Restore error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	var status string
	if err := database.QueryRow(ctx, `PRAGMA integrity_check`).Scan(&status); err != nil || status != "ok" {
		fmt.Fprintf(os.Stderr, "Restore error: integrity check failed: %v %s\n", err, status)
		os.Exit(1)
	}

	fmt.Println("Database restore completed.")
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return err
	}
	return dstFile.Close()
}
