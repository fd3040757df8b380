package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig is returned when a configuration value is out of range
var ErrInvalidConfig = errors.New("invalid configuration")

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	var problems []string

	if c.EnvSchemaVersion != ExpectedEnvSchemaVersion {
		problems = append(problems, fmt.Sprintf(
			"ENV_SCHEMA_VERSION mismatch: expected %s, got %s", ExpectedEnvSchemaVersion, c.EnvSchemaVersion))
	}
	if c.Port <= 0 || c.Port > 65535 {
		problems = append(problems, fmt.Sprintf("PORT out of range: %d", c.Port))
	}
	if c.APIKey == "" && c.Environment == EnvProduction {
		problems = append(problems, "API_KEY must be set in production")
	}
	if c.MaxBodyBytes <= 0 {
		problems = append(problems, "MAX_BODY_BYTES must be positive")
	}

	switch c.StoreDriver {
	case StoreMemory, StorePostgres:
	case StoreSQLite:
		if c.SQLitePath == "" {
			problems = append(problems, "SQLITE_PATH must be set for the sqlite store")
		}
	case StoreFile:
		if c.SnapshotDir == "" {
			problems = append(problems, "SNAPSHOT_DIR must be set for the file store")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	if c.TickInterval <= 0 {
		problems = append(problems, "TICK_INTERVAL must be positive")
	}
	if c.SaveDebounce <= 0 {
		problems = append(problems, "SAVE_DEBOUNCE must be positive")
	}
	if c.WeatherInterval < 0 {
		problems = append(problems, "WEATHER_INTERVAL must not be negative")
	}
	if c.WorkerCount < 1 {
		problems = append(problems, "WORKER_COUNT must be at least 1")
	}
	if c.StartingCurrency < 0 {
		problems = append(problems, "STARTING_CURRENCY must not be negative")
	}
	if c.CatchUpMaxWindow < c.CatchUpMinGap {
		problems = append(problems, "CATCHUP_MAX_WINDOW must not be shorter than CATCHUP_MIN_GAP")
	}
	if c.CatchUpMaxCurrencyPerCycle < 0 || c.CatchUpMaxItemsPerCycle < 0 || c.CatchUpMaxItemsPerAsset < 0 {
		problems = append(problems, "catch-up caps must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
