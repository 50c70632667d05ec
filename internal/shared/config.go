package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Account  AccountConfig  `toml:"account"`
	API      APIConfig      `toml:"api"`
	Import   ImportConfig   `toml:"import"`
	Database DatabaseConfig `toml:"database"`
}

// AccountConfig holds the default account and profile used when flags are omitted.
//
// The password is intentionally absent; it is read from flags or the environment.
type AccountConfig struct {
	Email   string `toml:"email"`
	Profile string `toml:"profile"`
}

// APIConfig contains the account API endpoints and OAuth2 client credentials.
type APIConfig struct {
	BaseURL      string `toml:"base_url"`
	TokenURL     string `toml:"token_url"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	PageSize     int    `toml:"page_size"`
}

// ImportConfig contains pacing settings for rating imports.
type ImportConfig struct {
	IntervalMS      int  `toml:"interval_ms"`
	ContinueOnError bool `toml:"continue_on_error"`
}

// Interval returns the configured minimum inter-call interval.
func (c ImportConfig) Interval() time.Duration {
	if c.IntervalMS < 0 {
		return 0
	}
	return time.Duration(c.IntervalMS) * time.Millisecond
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate reports configuration values that can never work.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("%w: api.base_url is required", ErrInvalidConfig)
	}
	if c.API.PageSize < 0 {
		return fmt.Errorf("%w: api.page_size must not be negative", ErrInvalidConfig)
	}
	if c.Import.IntervalMS < 0 {
		return fmt.Errorf("%w: import.interval_ms must not be negative", ErrInvalidConfig)
	}
	return nil
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
