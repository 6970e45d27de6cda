package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig
	HTTP     HTTPConfig
	Auth     AuthConfig
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	Path string // SQLite database file path
}

// HTTPConfig contains HTTP server settings.
type HTTPConfig struct {
	Address        string // listen address, e.g. ":8080"
	RequestTimeout time.Duration
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// fileConfig is the YAML shape of the optional config file. Durations are
// plain integers in the same units as the matching environment variables.
type fileConfig struct {
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	HTTP struct {
		Address               string `yaml:"address"`
		RequestTimeoutSeconds int    `yaml:"requestTimeoutSeconds"`
	} `yaml:"http"`
	Auth struct {
		JWTSecret     string `yaml:"jwtSecret"`
		TokenTTLHours int    `yaml:"tokenTTLHours"`
	} `yaml:"auth"`
}

// Load builds configuration from defaults, an optional YAML file named by
// CONFIG_PATH, and finally environment variables (highest precedence).
// JWT_SECRET must be set one way or another.
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set; required for production")
	}
	return cfg, nil
}

// LoadWithDefaults is like Load but falls back to a development JWT secret.
// WARNING: only use in development.
func LoadWithDefaults() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = "dev-secret-change-me"
	}
	return cfg, nil
}

func load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{Path: "scheduler.db"},
		HTTP:     HTTPConfig{Address: ":8080", RequestTimeout: 10 * time.Second},
		Auth:     AuthConfig{TokenTTL: 24 * time.Hour},
	}
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
		if fc.Database.Path != "" {
			cfg.Database.Path = fc.Database.Path
		}
		if fc.HTTP.Address != "" {
			cfg.HTTP.Address = fc.HTTP.Address
		}
		if fc.HTTP.RequestTimeoutSeconds > 0 {
			cfg.HTTP.RequestTimeout = time.Duration(fc.HTTP.RequestTimeoutSeconds) * time.Second
		}
		if fc.Auth.JWTSecret != "" {
			cfg.Auth.JWTSecret = fc.Auth.JWTSecret
		}
		if fc.Auth.TokenTTLHours > 0 {
			cfg.Auth.TokenTTL = time.Duration(fc.Auth.TokenTTLHours) * time.Hour
		}
	}
	cfg.Database.Path = getEnv("DB_PATH", cfg.Database.Path)
	cfg.HTTP.Address = getEnv("HTTP_ADDRESS", cfg.HTTP.Address)
	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	if sec, err := getEnvInt("REQUEST_TIMEOUT_SECONDS", 0); err != nil {
		return nil, err
	} else if sec > 0 {
		cfg.HTTP.RequestTimeout = time.Duration(sec) * time.Second
	}
	if hours, err := getEnvInt("TOKEN_TTL_HOURS", 0); err != nil {
		return nil, err
	} else if hours > 0 {
		cfg.Auth.TokenTTL = time.Duration(hours) * time.Hour
	}
	return cfg, nil
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

// getEnvInt retrieves an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultVal int) (int, error) {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		return intVal, nil
	}
	return defaultVal, nil
}

// String returns a string representation of the config (secrets are masked).
func (c *Config) String() string {
	return fmt.Sprintf("Config{DB: %s, HTTP: %s, Auth: *** (masked) ***}", c.Database.Path, c.HTTP.Address)
}
