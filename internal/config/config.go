package config

import (
	"os"

	"github.com/shopspring/decimal"
)

// Config is built from environment variables. Rate/limit defaults are
// injected here so the resolver never reaches for package-level state.
type Config struct {
	HTTPAddr string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	RedisAddr string
	RedisPass string

	JWTSecret string

	// Fallback rates used when no admin-configured row exists.
	DefaultUSDToBDT decimal.Decimal
	DefaultBDTToUSD decimal.Decimal

	// Minimum received amount (USD) applied to funding flows when no
	// limit row is configured for the method pair.
	DefaultMinReceiveUSD decimal.Decimal

	CardFeedURL   string
	CardFeedToken string
}

func Load() *Config {
	return &Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "wallet_exchange"),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass: getEnv("REDIS_PASS", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),

		DefaultUSDToBDT:      getEnvDecimal("DEFAULT_USD_TO_BDT", "122"),
		DefaultBDTToUSD:      getEnvDecimal("DEFAULT_BDT_TO_USD", "123"),
		DefaultMinReceiveUSD: getEnvDecimal("DEFAULT_MIN_RECEIVE_USD", "50"),

		CardFeedURL:   getEnv("CARD_FEED_URL", ""),
		CardFeedToken: getEnv("CARD_FEED_TOKEN", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDecimal(key, fallback string) decimal.Decimal {
	v := os.Getenv(key)
	if v == "" {
		v = fallback
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.RequireFromString(fallback)
	}
	return d
}
