package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Razorpay RazorpayConfig
	Reward   RewardConfig
	Auth     AuthConfig
	Log      LogConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port            string `envconfig:"SERVER_PORT" default:"3000"`
	ShutdownTimeout int    `envconfig:"SHUTDOWN_TIMEOUT" default:"30"` // seconds
}

// DBConfig holds database-related configuration.
// WARNING: Default password is for local development only.
// In production, always set DB_PASSWORD via environment variable.
// In production, set DB_SSLMODE to "require" or "verify-full".
type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"` // CHANGE IN PRODUCTION
	Name     string `envconfig:"DB_NAME" default:"checkout_db"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"` // Use "require" in production
	MaxConns int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns int    `envconfig:"DB_MIN_CONNS" default:"5"`
}

// DSN returns the PostgreSQL connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s&pool_max_conns=%d&pool_min_conns=%d",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode, c.MaxConns, c.MinConns)
}

// RazorpayConfig holds payment gateway credentials.
// The key secret signs payment confirmations; it must never be logged
// or exposed to clients.
type RazorpayConfig struct {
	KeyID     string `envconfig:"RAZORPAY_KEY_ID" default:"rzp_test_key"`
	KeySecret string `envconfig:"RAZORPAY_KEY_SECRET" default:"rzp_test_secret"` // CHANGE IN PRODUCTION
	Currency  string `envconfig:"RAZORPAY_CURRENCY" default:"INR"`
}

// RewardConfig controls loyalty coupon issuance.
type RewardConfig struct {
	Threshold          int64 `envconfig:"REWARD_THRESHOLD" default:"2000000"` // paise
	DiscountPercentage int   `envconfig:"REWARD_DISCOUNT_PERCENTAGE" default:"10"`
}

// AuthConfig holds token verification settings.
type AuthConfig struct {
	JWTSecret string `envconfig:"JWT_SECRET" default:"dev_jwt_secret"` // CHANGE IN PRODUCTION
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Pretty bool   `envconfig:"LOG_PRETTY" default:"false"`
}

// Load parses environment variables into the Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
