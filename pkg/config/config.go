package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "INVENTORY"

	AppEnvDev = "development"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App   AppConfig
	DB    DBConfig
	Redis RedisConfig
	Query QueryConfig
}

// Load reads the process environment. Callers load .env files beforehand.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Name      string `envconfig:"INVENTORY_APP_NAME" default:"household-inventory"`
	Env       string `envconfig:"INVENTORY_APP_ENV" default:"development"`
	Port      string `envconfig:"INVENTORY_APP_PORT" default:"3000"`
	LogLevel  string `envconfig:"INVENTORY_LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"INVENTORY_LOG_FORMAT"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

// LoggerFormat is LogFormat when set; otherwise console in development and
// json everywhere else.
func (a AppConfig) LoggerFormat() string {
	if a.LogFormat != "" {
		return a.LogFormat
	}
	if a.IsDev() {
		return "console"
	}
	return "json"
}

type DBConfig struct {
	Driver string `envconfig:"INVENTORY_DB_DRIVER" default:"postgres"`
	DSN    string `envconfig:"INVENTORY_DB_DSN"`

	Host     string `envconfig:"INVENTORY_DB_HOST"`
	Port     int    `envconfig:"INVENTORY_DB_PORT" default:"5432"`
	User     string `envconfig:"INVENTORY_DB_USER"`
	Password string `envconfig:"INVENTORY_DB_PASSWORD"`
	Name     string `envconfig:"INVENTORY_DB_NAME"`
	SSLMode  string `envconfig:"INVENTORY_DB_SSLMODE" default:"disable"`
	TimeZone string `envconfig:"INVENTORY_DB_TIMEZONE" default:"Asia/Tokyo"`

	MaxOpenConns    int           `envconfig:"INVENTORY_DB_MAX_OPEN_CONNS" default:"100"`
	MaxIdleConns    int           `envconfig:"INVENTORY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"INVENTORY_DB_CONN_MAX_LIFETIME" default:"1h"`

	AutoMigrate bool `envconfig:"INVENTORY_DB_AUTO_MIGRATE" default:"false"`
	LogSQL      bool `envconfig:"INVENTORY_DB_LOG_SQL" default:"false"`
}

func (d *DBConfig) ensureDSN() error {
	d.Driver = strings.ToLower(strings.TrimSpace(d.Driver))
	switch d.Driver {
	case DriverSQLite:
		if d.DSN == "" {
			d.DSN = "inventory.db"
		}
		return nil
	case DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", d.Driver)
	}

	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("database DSN is required (set INVENTORY_DB_DSN or INVENTORY_DB_HOST/USER/NAME)")
	}
	d.DSN = fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode, d.TimeZone,
	)
	return nil
}

// RedisConfig is optional; an empty URL and address disables the lookup cache.
type RedisConfig struct {
	URL            string        `envconfig:"INVENTORY_REDIS_URL"`
	Address        string        `envconfig:"INVENTORY_REDIS_ADDR"`
	Password       string        `envconfig:"INVENTORY_REDIS_PASSWORD"`
	DB             int           `envconfig:"INVENTORY_REDIS_DB" default:"0"`
	DialTimeout    time.Duration `envconfig:"INVENTORY_REDIS_DIAL_TIMEOUT" default:"5s"`
	LookupCacheTTL time.Duration `envconfig:"INVENTORY_LOOKUP_CACHE_TTL" default:"24h"`
}

func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type QueryConfig struct {
	// StoreEmptyAsNotFound keeps the 404-on-empty policy of the by-store listing.
	StoreEmptyAsNotFound bool `envconfig:"INVENTORY_STORE_EMPTY_AS_NOT_FOUND" default:"true"`
}
