package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/osse101/IdleGarden_Go/internal/garden"
)

// Config holds the application configuration
type Config struct {
	EnvSchemaVersion string `env:"ENV_SCHEMA_VERSION" envDefault:"1.0"`
	Environment      string `env:"ENVIRONMENT" envDefault:"dev"`
	ServiceName      string `env:"SERVICE_NAME" envDefault:"idle-garden"`
	Version          string `env:"VERSION" envDefault:"dev"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat        string `env:"LOG_FORMAT" envDefault:"text"`
	LogDir           string `env:"LOG_DIR"`

	Port           int      `env:"PORT" envDefault:"8080"`
	APIKey         string   `env:"API_KEY"`
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
	MaxBodyBytes   int64    `env:"MAX_BODY_BYTES" envDefault:"1048576"`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"memory"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"data/garden.db"`
	SnapshotDir string `env:"SNAPSHOT_DIR" envDefault:"data/snapshots"`

	DBUser        string        `env:"DB_USER" envDefault:"postgres"`
	DBPassword    string        `env:"DB_PASSWORD" envDefault:"postgres"`
	DBHost        string        `env:"DB_HOST" envDefault:"localhost"`
	DBPort        string        `env:"DB_PORT" envDefault:"5432"`
	DBName        string        `env:"DB_NAME" envDefault:"idlegarden"`
	DBMaxConns    int           `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMaxConnIdle time.Duration `env:"DB_MAX_CONN_IDLE" envDefault:"5m"`
	DBMaxConnLife time.Duration `env:"DB_MAX_CONN_LIFE" envDefault:"1h"`
	CacheSize     int           `env:"GARDEN_CACHE_SIZE" envDefault:"1024"`
	CacheTTL      time.Duration `env:"GARDEN_CACHE_TTL" envDefault:"5m"`

	CatalogPath      string        `env:"CATALOG_PATH"`
	StartingCurrency int64         `env:"STARTING_CURRENCY" envDefault:"1000"`
	TickInterval     time.Duration `env:"TICK_INTERVAL" envDefault:"1s"`
	SaveDebounce     time.Duration `env:"SAVE_DEBOUNCE" envDefault:"5s"`
	WeatherInterval  time.Duration `env:"WEATHER_INTERVAL" envDefault:"15m"`
	WorkerCount      int           `env:"WORKER_COUNT" envDefault:"2"`
	WorkerQueueSize  int           `env:"WORKER_QUEUE_SIZE" envDefault:"64"`

	CatchUpMinGap              time.Duration `env:"CATCHUP_MIN_GAP" envDefault:"5m"`
	CatchUpMaxWindow           time.Duration `env:"CATCHUP_MAX_WINDOW" envDefault:"24h"`
	CatchUpMaxCurrencyPerCycle int64         `env:"CATCHUP_MAX_CURRENCY_PER_CYCLE" envDefault:"1000"`
	CatchUpMaxItemsPerCycle    int           `env:"CATCHUP_MAX_ITEMS_PER_CYCLE" envDefault:"10"`
	CatchUpMaxItemsPerAsset    int           `env:"CATCHUP_MAX_ITEMS_PER_ASSET" envDefault:"1000"`
}

// Load loads the configuration from the environment, reading .env when present
func Load() (*Config, error) {
	// .env is optional; real env vars win
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// CatchUpLimits returns the offline catch-up caps
func (c *Config) CatchUpLimits() garden.CatchUpLimits {
	return garden.CatchUpLimits{
		MinGap:              c.CatchUpMinGap,
		MaxWindow:           c.CatchUpMaxWindow,
		MaxCurrencyPerCycle: c.CatchUpMaxCurrencyPerCycle,
		MaxItemsPerCycle:    c.CatchUpMaxItemsPerCycle,
		MaxItemsPerAsset:    c.CatchUpMaxItemsPerAsset,
	}
}

// IsDevelopment reports whether the process runs in the dev environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvDev || c.Environment == "development"
}
