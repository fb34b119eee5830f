package shared

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

//go:embed config.example.toml
var exampleConf []byte

const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Driver       string `toml:"driver" env:"PODFETCH_DATABASE_DRIVER, overwrite"`
	Path         string `toml:"path" env:"PODFETCH_DATABASE_PATH, overwrite"`
	DSN          string `toml:"dsn" env:"PODFETCH_DATABASE_DSN, overwrite"`
	MaxOpenConns int    `toml:"max_open_conns" env:"PODFETCH_DATABASE_MAX_OPEN_CONNS, overwrite"`
	MaxIdleConns int    `toml:"max_idle_conns" env:"PODFETCH_DATABASE_MAX_IDLE_CONNS, overwrite"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level" env:"PODFETCH_LOG_LEVEL, overwrite"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadDotEnv loads KEY=VALUE pairs from a .env file into the process environment.
//
// A missing file is not an error. Variables already set in the environment win.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides config values with PODFETCH_* variables found by l.
//
// l defaults to the process environment.
func ApplyEnv(ctx context.Context, config *Config, l envconfig.Lookuper) error {
	if l == nil {
		l = envconfig.OsLookuper()
	}
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: config, Lookuper: l}); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Validate checks the database settings are usable.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("%w: database.path is required for %s", ErrInvalidConfig, DriverSQLite)
		}
	case DriverMySQL:
		if c.Database.DSN == "" {
			return fmt.Errorf("%w: database.dsn is required for %s", ErrInvalidConfig, DriverMySQL)
		}
		if _, err := mysql.ParseDSN(c.Database.DSN); err != nil {
			return fmt.Errorf("%w: database.dsn: %v", ErrInvalidConfig, err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedDriver, c.Database.Driver)
	}
	return nil
}

// DataSource returns the driver specific connection string.
//
// MySQL DSNs always get parseTime and clientFoundRows: timestamps scan into [time.Time] and
// an update that changes nothing still reports the matched row.
func (d DatabaseConfig) DataSource() string {
	if d.Driver != DriverMySQL {
		return d.Path
	}

	cfg, err := mysql.ParseDSN(d.DSN)
	if err != nil {
		return d.DSN
	}
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	return cfg.FormatDSN()
}
