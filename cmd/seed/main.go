package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go-household-inventory/internal/lookup"
	"go-household-inventory/internal/repository"
	"go-household-inventory/internal/seed"
	"go-household-inventory/internal/service"
	"go-household-inventory/pkg/config"
	"go-household-inventory/pkg/database"
	"go-household-inventory/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	force := flag.Bool("force", false, "seed even when products already exist")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	logg := logger.New(logger.Options{
		Service: "seed",
		Level:   cfg.App.LogLevel,
		Format:  cfg.App.LoggerFormat(),
	})
	ctx := logg.WithField(context.Background(), "env", cfg.App.Env)

	db, err := database.Connect(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "resource not working: database", err)
		os.Exit(1)
	}
	if cfg.DB.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			logg.Error(ctx, "resource not working: database migration", err)
			os.Exit(1)
		}
	}

	products := repository.NewProductRepo(db)
	lifecycle := service.NewProductService(products, lookup.NewMockProvider(), nil, nil, logg)
	query := service.NewQueryService(products, repository.NewStockMovementRepo(db), cfg.Query)

	created, err := seed.Run(ctx, lifecycle, query, logg, *force)
	if err != nil {
		logg.Error(ctx, "seeding failed", err)
		os.Exit(1)
	}
	logg.Info(logg.WithField(ctx, "created", created), "seeding finished")
}
