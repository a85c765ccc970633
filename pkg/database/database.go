package database

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"go-household-inventory/internal/model"
	"go-household-inventory/pkg/config"
	"go-household-inventory/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Models lists every table owned by the service, in dependency order.
var Models = []interface{}{&model.Tag{}, &model.Product{}, &model.StockMovement{}}

// Connect opens the configured dialector and applies pool settings.
func Connect(ctx context.Context, cfg config.DBConfig, logg *logger.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	case config.DriverPostgres, "":
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DSN,
			PreferSimpleProtocol: true, // Disables implicit prepared statements for pooled (transaction mode) connections
		})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:      newGormLogger(cfg, logg),
		PrepareStmt: false,
	})
	if err != nil {
		return nil, fmt.Errorf("opening db connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql db handle: %w", err)
	}
	if cfg.Driver == config.DriverSQLite {
		// SQLite allows a single writer.
		sqlDB.SetMaxOpenConns(1)
	} else {
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if logg != nil {
		logg.Info(logg.WithField(ctx, "driver", cfg.Driver), "database connection established")
	}
	return db, nil
}

// AutoMigrate creates or updates the schema from the GORM models.
// Postgres deployments normally run the goose migrations instead.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models...)
}

func newGormLogger(cfg config.DBConfig, logg *logger.Logger) gormlogger.Interface {
	var out io.Writer = io.Discard
	level := gormlogger.Silent
	if logg != nil {
		out = logg.Writer()
		level = gormlogger.Warn
		if cfg.LogSQL {
			level = gormlogger.Info
		}
	}
	return gormlogger.New(
		log.New(out, "", 0),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
