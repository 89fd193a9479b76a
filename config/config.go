package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Remote RemoteConfig `mapstructure:"remote"`
	Search SearchConfig `mapstructure:"search"`
	Lookup LookupConfig `mapstructure:"lookup"`
	Filter FilterConfig `mapstructure:"filter"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RemoteConfig holds the drink service connection settings
type RemoteConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	MaxRetries        int           `mapstructure:"max_retries"`
}

// SearchConfig holds image search and catalog ordering settings
type SearchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
	PageSize int           `mapstructure:"page_size"`
	MaxPage  int           `mapstructure:"max_page"`
	Locale   string        `mapstructure:"locale"`
}

// LookupConfig holds recipe lookup settings
type LookupConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// FilterConfig holds catalog filter settings
type FilterConfig struct {
	FuzzyMatching     bool `mapstructure:"fuzzy_matching"`
	FuzzyEditDistance int  `mapstructure:"fuzzy_edit_distance"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file. An empty path searches the
// default locations.
func LoadFile(path string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/drinkbook/")
	}

	// Environment variable settings; DRINKBOOK_REMOTE_BASE_URL maps to remote.base_url
	v.SetEnvPrefix("DRINKBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile exports the variables of ./.env that are not already set.
// A missing file is not an error.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})

	// Remote drink service defaults
	v.SetDefault("remote.base_url", "http://localhost:8000")
	v.SetDefault("remote.timeout", "30s")
	v.SetDefault("remote.requests_per_second", 10)
	v.SetDefault("remote.burst", 10)
	v.SetDefault("remote.max_retries", 3)

	// Image search defaults
	v.SetDefault("search.debounce", "500ms")
	v.SetDefault("search.page_size", 6)
	v.SetDefault("search.max_page", 4)
	v.SetDefault("search.locale", "en")

	v.SetDefault("lookup.timeout", "3s")

	v.SetDefault("filter.fuzzy_matching", true)
	v.SetDefault("filter.fuzzy_edit_distance", 1)

	v.SetDefault("log.level", "info")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Remote.BaseURL == "" {
		return fmt.Errorf("remote base URL is required (set DRINKBOOK_REMOTE_BASE_URL)")
	}
	if !strings.HasPrefix(config.Remote.BaseURL, "http://") && !strings.HasPrefix(config.Remote.BaseURL, "https://") {
		return fmt.Errorf("remote base URL must be http or https, got: %s", config.Remote.BaseURL)
	}

	if config.Remote.Timeout <= 0 {
		return fmt.Errorf("remote timeout must be positive, got: %s", config.Remote.Timeout)
	}
	if config.Remote.RequestsPerSecond <= 0 || config.Remote.Burst <= 0 {
		return fmt.Errorf("remote rate limit must be positive, got: %v/s burst %d",
			config.Remote.RequestsPerSecond, config.Remote.Burst)
	}
	if config.Remote.MaxRetries < 1 {
		return fmt.Errorf("remote max retries must be at least 1, got: %d", config.Remote.MaxRetries)
	}

	if config.Search.Debounce <= 0 {
		return fmt.Errorf("search debounce must be positive, got: %s", config.Search.Debounce)
	}
	if config.Search.PageSize < 1 {
		return fmt.Errorf("search page size must be at least 1, got: %d", config.Search.PageSize)
	}
	if config.Search.MaxPage < 1 {
		return fmt.Errorf("search max page must be at least 1, got: %d", config.Search.MaxPage)
	}

	if config.Lookup.Timeout <= 0 {
		return fmt.Errorf("lookup timeout must be positive, got: %s", config.Lookup.Timeout)
	}

	switch config.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be one of debug, info, warn, error, got: %s", config.Log.Level)
	}

	return nil
}
