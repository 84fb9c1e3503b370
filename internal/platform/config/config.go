package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds process-wide settings read from the environment.
type Config struct {
	Env              string
	Port             string
	DatabaseURL      string
	JWTSecret        string
	LogLevel         string
	LocalStorePath   string
	AccessPolicyFile string
	Wallet           WalletGateway
	Sessions         Sessions
}

// Sessions bounds the in-memory cart and mode sessions. Zero values leave
// the defaults in place.
type Sessions struct {
	Max         int
	IdleTimeout time.Duration
	SweepEvery  time.Duration
}

// WalletGateway configures the wallet top-up and withdrawal provider.
type WalletGateway struct {
	Provider string
	APIKey   string
	BaseURL  string
	Sandbox  bool
}

// Load reads a .env file if one exists, then the environment.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := &Config{
		Env:              getenv("APP_ENV", "development"),
		Port:             getenv("APP_PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		LocalStorePath:   getenv("LOCAL_STORE_PATH", "danasys-local.db"),
		AccessPolicyFile: os.Getenv("ACCESS_POLICY_FILE"),
		Wallet: WalletGateway{
			Provider: getenv("WALLET_GATEWAY_PROVIDER", "SANDBOX"),
			APIKey:   os.Getenv("WALLET_GATEWAY_API_KEY"),
			BaseURL:  os.Getenv("WALLET_GATEWAY_BASE_URL"),
		},
	}

	sandbox, err := strconv.ParseBool(getenv("WALLET_GATEWAY_SANDBOX", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid WALLET_GATEWAY_SANDBOX: %w", err)
	}
	cfg.Wallet.Sandbox = sandbox

	if v := os.Getenv("SESSION_MAX"); v != "" {
		if cfg.Sessions.Max, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("invalid SESSION_MAX: %w", err)
		}
	}
	if cfg.Sessions.IdleTimeout, err = time.ParseDuration(getenv("SESSION_IDLE_TIMEOUT", "24h")); err != nil {
		return nil, fmt.Errorf("invalid SESSION_IDLE_TIMEOUT: %w", err)
	}
	if cfg.Sessions.SweepEvery, err = time.ParseDuration(getenv("SESSION_SWEEP_INTERVAL", "5m")); err != nil {
		return nil, fmt.Errorf("invalid SESSION_SWEEP_INTERVAL: %w", err)
	}
	if cfg.Sessions.SweepEvery <= 0 {
		return nil, errors.New("SESSION_SWEEP_INTERVAL must be positive")
	}

	return cfg, nil
}

// Validate reports settings the API server cannot start without.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}

// Development reports whether the process runs outside production.
func (c *Config) Development() bool {
	return c.Env != "production"
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
