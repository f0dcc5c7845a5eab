package main

import (
	"context"
	"fmt"
	"os"

	dbfs "github.com/tomasfarkasovsky/trailhead/db"
	"github.com/tomasfarkasovsky/trailhead/internal/config"
	"github.com/tomasfarkasovsky/trailhead/internal/db"
	"github.com/tomasfarkasovsky/trailhead/internal/repository/sqldb"
)

// db_init applies migrations and adds any usernames given as arguments to
// the roster.
func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	database, err := db.Open(ctx, cfg.Database, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	n, err := db.Migrate(ctx, database, dbfs.Migrations)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Migration runner error: %v\n", err)
		os.Exit(1)
	}

	repo := sqldb.New(database, nil)
	for _, username := range os.Args[1:] {
		if _, err := repo.AddProfile(ctx, username); err != nil {
			fmt.Fprintf(os.Stderr, "Roster error: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Database initialized successfully (%d migrations, %d profiles added).\n", n, len(os.Args)-1)
}
