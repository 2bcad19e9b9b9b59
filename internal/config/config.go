// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds every setting the service reads at startup.
type Config struct {
	Env         string
	Port        string
	DatabaseURL string
	JWTSecret   string

	TaxRate     decimal.Decimal
	ShippingFee decimal.Decimal

	LockTimeout   time.Duration
	CommitTimeout time.Duration

	RedisURL          string
	PromotionCacheTTL time.Duration

	KafkaBrokers     []string
	OrderEventsTopic string
}

// Load reads .env files (if present) and then the process environment.
// A missing .env file is not an error; a malformed value is.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := &Config{
		Env:              getenv("APP_ENV", "development"),
		Port:             getenv("APP_PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		RedisURL:         os.Getenv("REDIS_URL"),
		OrderEventsTopic: getenv("ORDER_EVENTS_TOPIC", "orders.placed"),
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	var err error
	if cfg.TaxRate, err = getDecimal("TAX_RATE", "0.08"); err != nil {
		return nil, err
	}
	if cfg.ShippingFee, err = getDecimal("SHIPPING_FEE", "10.00"); err != nil {
		return nil, err
	}
	if cfg.LockTimeout, err = getDuration("LOCK_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.CommitTimeout, err = getDuration("COMMIT_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.PromotionCacheTTL, err = getDuration("PROMOTION_CACHE_TTL", 30*time.Second); err != nil {
		return nil, err
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.TaxRate.IsNegative() || cfg.ShippingFee.IsNegative() {
		return nil, fmt.Errorf("TAX_RATE and SHIPPING_FEE must not be negative")
	}
	return cfg, nil
}

// IsProduction reports whether APP_ENV selects production behaviour.
func (c *Config) IsProduction() bool { return strings.EqualFold(c.Env, "production") }

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDecimal(key, fallback string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(getenv(key, fallback))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d, nil
	}
	// bare integers are seconds
	secs, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return time.Duration(secs) * time.Second, nil
}
