package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go-household-inventory/pkg/config"
	"go-household-inventory/pkg/database"
	"go-household-inventory/pkg/logger"
	"go-household-inventory/pkg/migrate"

	"github.com/joho/godotenv"
)

func main() {
	cmd := flag.String("cmd", "up", "migration command: up|down|status|version|validate")
	dir := flag.String("dir", migrate.DefaultDir, "goose migrations directory")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	logg := logger.New(logger.Options{
		Service: "migrate",
		Level:   cfg.App.LogLevel,
		Format:  cfg.App.LoggerFormat(),
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
		"dir": *dir,
	})

	if *cmd == "validate" {
		if err := migrate.ValidateDir(*dir); err != nil {
			fmt.Fprintf(os.Stderr, "migration validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("migration validation passed")
		return
	}

	if cfg.DB.Driver != config.DriverPostgres {
		fmt.Fprintf(os.Stderr, "goose migrations target postgres; driver %q uses INVENTORY_DB_AUTO_MIGRATE\n", cfg.DB.Driver)
		os.Exit(1)
	}

	db, err := database.Connect(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	sqlDB, err := db.DB()
	requireResource(ctx, logg, "sql database", err)
	defer sqlDB.Close()

	switch *cmd {
	case "up", "down", "status", "version":
		if err := migrate.Run(ctx, sqlDB, *dir, *cmd); err != nil {
			fmt.Fprintf(os.Stderr, "goose %s failed: %v\n", *cmd, err)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "unknown -cmd value:", *cmd)
		os.Exit(1)
	}
	logg.Info(ctx, "migration finished")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
