// Command migrate owns the users schema lifecycle. The API itself never
// creates or drops schema.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"github.com/roster-api/roster/internal/app"
)

const schemaPath = "migrations/schema.sql"

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if len(os.Args) < 2 {
		logger.Info("usage: migrate [up|down]")
		os.Exit(1)
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		logger.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.PrimaryPool().DSN)
	if err != nil {
		logger.Error("connect primary", slog.Any("error", err))
		os.Exit(1)
	}
	defer conn.Close(ctx)

	switch os.Args[1] {
	case "up":
		err = up(ctx, conn, logger)
	case "down":
		err = down(ctx, conn, logger)
	default:
		logger.Info("usage: migrate [up|down]")
		os.Exit(1)
	}
	if err != nil {
		logger.Error("migration failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func up(ctx context.Context, conn *pgx.Conn, logger *slog.Logger) error {
	logger.Info("starting database migrations")

	schema, err := os.ReadFile(schemaPath)
	if err != nil {
		return err
	}
	if _, err := conn.Exec(ctx, string(schema)); err != nil {
		return err
	}

	// Verify the table actually landed.
	var name string
	err = conn.QueryRow(ctx, `SELECT table_name FROM information_schema.tables
WHERE table_schema = 'public' AND table_name = 'users'`).Scan(&name)
	if err != nil {
		return err
	}

	logger.Info("schema migration completed")
	return nil
}

func down(ctx context.Context, conn *pgx.Conn, logger *slog.Logger) error {
	logger.Warn("rolling back database schema")

	if _, err := conn.Exec(ctx, `DROP TABLE IF EXISTS users CASCADE`); err != nil {
		return err
	}
	if _, err := conn.Exec(ctx, `DROP FUNCTION IF EXISTS update_updated_at_column() CASCADE`); err != nil {
		return err
	}

	logger.Info("rollback completed")
	return nil
}
