package main

// Run database migrations:
//   go run ./cmd/migrate [up|down|status]

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"legal-file-auditor/internal/shared/config"
	"legal-file-auditor/internal/shared/storage/db"
	"legal-file-auditor/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Init(cfg.LogLevel, cfg.Env == "dev")
	defer telemetry.Sync()

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}
	if err := run(context.Background(), cfg, command); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"command": command, "err": err})
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, command string) error {
	var step func(context.Context, *sql.DB) error
	switch command {
	case "up":
		step = db.RunMigrations
	case "down":
		step = db.RollbackMigration
	case "status":
		step = db.MigrationStatus
	default:
		return fmt.Errorf("unknown command %q (want up, down or status)", command)
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer sqlDB.Close()
	return step(ctx, sqlDB)
}
