package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds all application configuration.
type Config struct {
	Backend BackendConfig
	Polling PollingConfig
	Cart    CartConfig
	State   StateConfig
	Serve   ServeConfig
	Logger  LoggerConfig
	Login   LoginConfig
}

// BackendConfig holds settings for the remote marketplace API.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// PollingConfig holds the independent poll cadences. Each concern runs on
// its own timer with no coordination between them.
type PollingConfig struct {
	Orders           time.Duration
	UnreadCount      time.Duration
	NotificationList time.Duration
}

// CartConfig holds cart pricing settings.
type CartConfig struct {
	DeliveryFee decimal.Decimal
}

// StateConfig holds the durable local storage location (session token and,
// optionally, persisted cart lines).
type StateConfig struct {
	Dir string
}

// ServeConfig holds the local status/metrics server settings.
type ServeConfig struct {
	Host string
	Port int
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// LoginConfig holds optional credentials for non-interactive login. Left
// empty, the daemon requires a previously stored session token.
type LoginConfig struct {
	Email    string
	Password string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	fee, err := decimal.NewFromString(getEnv("DELIVERY_FEE", "50"))
	if err != nil {
		return nil, fmt.Errorf("invalid DELIVERY_FEE: %w", err)
	}

	cfg := &Config{
		Backend: BackendConfig{
			BaseURL: getEnv("API_BASE_URL", "http://localhost:4000"),
			Timeout: getEnvAsDuration("API_TIMEOUT", 15*time.Second),
		},
		Polling: PollingConfig{
			Orders:           getEnvAsDuration("ORDER_POLL_INTERVAL", 45*time.Second),
			UnreadCount:      getEnvAsDuration("UNREAD_POLL_INTERVAL", 15*time.Second),
			NotificationList: getEnvAsDuration("NOTIFICATION_POLL_INTERVAL", 60*time.Second),
		},
		Cart: CartConfig{
			DeliveryFee: fee,
		},
		State: StateConfig{
			Dir: getEnv("STATE_DIR", defaultStateDir()),
		},
		Serve: ServeConfig{
			Host: getEnv("SERVE_HOST", "127.0.0.1"),
			Port: getEnvAsInt("SERVE_PORT", 8090),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Login: LoginConfig{
			Email:    getEnv("LOGIN_EMAIL", ""),
			Password: getEnv("LOGIN_PASSWORD", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("API base URL is required")
	}

	if _, err := url.ParseRequestURI(c.Backend.BaseURL); err != nil {
		return fmt.Errorf("invalid API base URL %q: %w", c.Backend.BaseURL, err)
	}

	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("API timeout must be positive")
	}

	if c.Polling.Orders <= 0 || c.Polling.UnreadCount <= 0 || c.Polling.NotificationList <= 0 {
		return fmt.Errorf("poll intervals must be positive")
	}

	if c.Cart.DeliveryFee.IsNegative() {
		return fmt.Errorf("delivery fee cannot be negative")
	}

	if c.State.Dir == "" {
		return fmt.Errorf("state directory is required")
	}

	if c.Serve.Port < 1 || c.Serve.Port > 65535 {
		return fmt.Errorf("invalid serve port: %d", c.Serve.Port)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	return nil
}

// Address returns the local serve address.
func (c *ServeConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func defaultStateDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home + "/.agrimart"
	}
	return ".agrimart"
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration retrieves an environment variable as a duration or returns a default value.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
