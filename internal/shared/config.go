package shared

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMemory = "memory"
	DriverMySQL  = "mysql"
)

type Config struct {
	AppEnv        string
	HTTPAddr      string
	MetricsAddr   string
	StorageDriver string
	MySQLDSN      string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	JWTSecret     string
	SessionTTL    time.Duration
	TaxRate       int64
	SeedOnStart   bool
	FeedURL       string
	FeedKey       string
	SeedWorkers   int
	CORSOrigins   []string

	// Warnings collects what Load adjusted; callers log them once the
	// configured logger is in place.
	Warnings []string
}

const devJWTSecret = "dev-secret-change-me"

var ErrNoJWTSecret = errors.New("config: JWT_SECRET is required outside dev")

// IsDev reports whether APP_ENV names a local environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local", "test":
		return true
	}
	return false
}

// Validate rejects configs the API must not start with.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("%w (APP_ENV=%s)", ErrNoJWTSecret, c.AppEnv)
	}
	return nil
}

// Load reads the environment, after merging a .env file when one exists.
// Variables already set in the environment win over .env.
func Load() Config {
	_ = godotenv.Load()

	var warnings []string
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			warnings = append(warnings, fmt.Sprintf("%s=%q is not an integer, using %d", k, v, def))
		}
		return def
	}

	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   env("METRICS_ADDR", ""),
		StorageDriver: strings.ToLower(env("STORAGE_DRIVER", DriverMemory)),
		MySQLDSN:      env("MYSQL_DSN", "root:root@tcp(localhost:3306)/hotels?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:     env("REDIS_ADDR", ""),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),
		JWTSecret:     env("JWT_SECRET", ""),
		SessionTTL:    time.Duration(atoi("SESSION_TTL_HOURS", 24)) * time.Hour,
		TaxRate:       int64(atoi("TAX_RATE", 18)),
		FeedURL:       env("CATALOG_FEED_URL", ""),
		FeedKey:       env("CATALOG_FEED_KEY", ""),
		SeedWorkers:   atoi("SEED_WORKERS", 8),
		CORSOrigins:   list(env("CORS_ORIGINS", "")),
	}
	c.SeedOnStart = boolean("SEED_ON_START", c.StorageDriver == DriverMemory)

	if c.JWTSecret == "" && c.IsDev() {
		c.JWTSecret = devJWTSecret
		warnings = append(warnings, "JWT_SECRET is empty, using an insecure development secret")
	}
	if c.StorageDriver != DriverMemory && c.StorageDriver != DriverMySQL {
		warnings = append(warnings, fmt.Sprintf("unknown STORAGE_DRIVER %q, falling back to memory", c.StorageDriver))
		c.StorageDriver = DriverMemory
	}
	c.Warnings = warnings
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func boolean(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func list(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
