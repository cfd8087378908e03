package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config is the process configuration, loaded from the environment
// with an optional .env file.
type Config struct {
	Port        string
	DatabaseURL string

	CryptoCapital float64
	EquityCapital float64

	TrackerInterval time.Duration
}

// Load reads .env (if present) and the environment.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Info().Msg("Loaded configuration from .env")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
		CryptoCapital:   getEnvFloat("CRYPTO_CAPITAL", 1000),
		EquityCapital:   getEnvFloat("EQUITY_CAPITAL", 10000000),
		TrackerInterval: getEnvDuration("TRACKER_INTERVAL", time.Minute),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
