package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr     string
	DBPath   string
	LogLevel string

	// LogFile enables a rotating log file next to stderr output when set.
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int

	ResultWorkerCount int
	ResultQueueSize   int

	RateLimitRPS   float64
	RateLimitBurst int

	SessionIdleTimeoutMinutes int

	// ContentDir overrides files of the embedded content catalog.
	ContentDir string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                      envOr("ADDR", ":8080"),
		DBPath:                    envOr("DB_PATH", "file:nclexnav.db"),
		LogLevel:                  envOr("LOG_LEVEL", "INFO"),
		LogFile:                   envOr("LOG_FILE", ""),
		LogMaxSizeMB:              envIntOr("LOG_MAX_SIZE_MB", 100),
		LogMaxBackups:             envIntOr("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays:             envIntOr("LOG_MAX_AGE_DAYS", 28),
		ResultWorkerCount:         envIntOr("RESULT_WORKER_COUNT", 2),
		ResultQueueSize:           envIntOr("RESULT_QUEUE_SIZE", 64),
		RateLimitRPS:              envFloatOr("RATE_LIMIT_RPS", 20),
		RateLimitBurst:            envIntOr("RATE_LIMIT_BURST", 40),
		SessionIdleTimeoutMinutes: envIntOr("SESSION_IDLE_TIMEOUT_MINUTES", 120),
		ContentDir:                envOr("CONTENT_DIR", ""),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR, got %q", c.LogLevel))
	}
	if c.LogFile != "" {
		if c.LogMaxSizeMB < 1 {
			errs = append(errs, fmt.Errorf("LOG_MAX_SIZE_MB must be at least 1, got %d", c.LogMaxSizeMB))
		}
		if c.LogMaxBackups < 0 {
			errs = append(errs, fmt.Errorf("LOG_MAX_BACKUPS cannot be negative, got %d", c.LogMaxBackups))
		}
		if c.LogMaxAgeDays < 0 {
			errs = append(errs, fmt.Errorf("LOG_MAX_AGE_DAYS cannot be negative, got %d", c.LogMaxAgeDays))
		}
	}
	if c.ResultWorkerCount < 1 {
		errs = append(errs, fmt.Errorf("RESULT_WORKER_COUNT must be at least 1, got %d", c.ResultWorkerCount))
	}
	if c.ResultQueueSize < 1 {
		errs = append(errs, fmt.Errorf("RESULT_QUEUE_SIZE must be at least 1, got %d", c.ResultQueueSize))
	}
	if c.RateLimitRPS <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_RPS must be positive, got %g", c.RateLimitRPS))
	}
	if c.RateLimitBurst < 1 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_BURST must be at least 1, got %d", c.RateLimitBurst))
	}
	if c.SessionIdleTimeoutMinutes < 1 {
		errs = append(errs, fmt.Errorf("SESSION_IDLE_TIMEOUT_MINUTES must be at least 1, got %d", c.SessionIdleTimeoutMinutes))
	}
	if c.ContentDir != "" {
		if info, err := os.Stat(c.ContentDir); err != nil || !info.IsDir() {
			errs = append(errs, fmt.Errorf("CONTENT_DIR %q is not a directory", c.ContentDir))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

func (c Config) SessionIdleTimeout() time.Duration {
	return time.Duration(c.SessionIdleTimeoutMinutes) * time.Minute
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envFloatOr(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("invalid value for %s=%q, using default %g", key, v, def)
	}
	return def
}
