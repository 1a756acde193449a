package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env             string        // dev, prod
	HTTPPort        string        // default 8080
	LogLevel        string        // zerolog level name
	SessionTTL      time.Duration // how long a login session stays valid
	SweepInterval   time.Duration // how often expired sessions are purged
	ShutdownTimeout time.Duration // graceful shutdown timeout
	LoginRate       float64       // login/register requests per second per client
	LoginBurst      int
	AdminName       string
	AdminEmail      string
	AdminPassword   string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:             getEnv("APP_ENV", "dev"),
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		SessionTTL:      getDuration("SESSION_TTL", 7*24*time.Hour),
		SweepInterval:   getDuration("SESSION_SWEEP_INTERVAL", 10*time.Minute),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		LoginRate:       getFloat("LOGIN_RATE", 5),
		LoginBurst:      getInt("LOGIN_BURST", 10),
		AdminName:       getEnv("ADMIN_NAME", "Administrator"),
		AdminEmail:      getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword:   getEnv("ADMIN_PASSWORD", "admin123"),
	}

	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	if cfg.SweepInterval <= 0 {
		return Config{}, fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive, got %s", cfg.SweepInterval)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		fmt.Fprintf(os.Stderr, "invalid duration for %s=%q, using default %s\n", key, v, def)
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		fmt.Fprintf(os.Stderr, "invalid int for %s=%q, using default %d\n", key, v, def)
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		fmt.Fprintf(os.Stderr, "invalid float for %s=%q, using default %g\n", key, v, def)
	}
	return def
}
