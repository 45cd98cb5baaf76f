package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"checkflow/migrations"
	"checkflow/pkg/config"
	"checkflow/pkg/database"
)

// migrate applies or inspects the capacity_records schema used by the
// Postgres-backed capacity loader (an alternative to the CSV capacity
// table; see internal/ingest/postgres_capacity.go).
func main() {
	command := flag.String("command", "up", "migration command: up, down, status")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := database.NewPostgresDB(ctx, &cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	migrator := database.NewMigrator(db.Pool(), migrations.FS, migrations.Dir)

	switch *command {
	case "up":
		err = migrator.Up(ctx)
	case "down":
		err = migrator.Down(ctx)
	case "status":
		err = migrator.Status(ctx)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q: expected up, down, or status\n", *command)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "migration %s failed: %v\n", *command, err)
		os.Exit(1)
	}
}
