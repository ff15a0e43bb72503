package shared

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "STORAGE_DRIVER", "SEED_ON_START", "TAX_RATE", "SESSION_TTL_HOURS", "CORS_ORIGINS", "JWT_SECRET"} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.StorageDriver != DriverMemory || !c.SeedOnStart {
		t.Fatalf("memory driver should seed by default: %+v", c)
	}
	if c.TaxRate != 18 || c.SessionTTL != 24*time.Hour {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if len(c.CORSOrigins) != 0 {
		t.Fatalf("unexpected origins: %v", c.CORSOrigins)
	}
}

func TestLoad_JWTSecretRequiredOutsideDev(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	t.Setenv("APP_ENV", "prod")
	c := Load()
	if c.JWTSecret != "" {
		t.Fatalf("prod must not get a fallback secret, got %q", c.JWTSecret)
	}
	if err := c.Validate(); !errors.Is(err, ErrNoJWTSecret) {
		t.Fatalf("want ErrNoJWTSecret, got %v", err)
	}

	t.Setenv("APP_ENV", "dev")
	c = Load()
	if c.JWTSecret != devJWTSecret || c.Validate() != nil {
		t.Fatalf("dev should fall back to the development secret: %+v", c)
	}
	if len(c.Warnings) == 0 || !strings.Contains(c.Warnings[0], "JWT_SECRET") {
		t.Fatalf("fallback secret should be reported: %v", c.Warnings)
	}

	t.Setenv("APP_ENV", "prod")
	t.Setenv("JWT_SECRET", "s3cret")
	if c := Load(); c.JWTSecret != "s3cret" || c.Validate() != nil || len(c.Warnings) != 0 {
		t.Fatalf("explicit secret: %+v", c)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "MySQL")
	t.Setenv("SEED_ON_START", "")
	t.Setenv("TAX_RATE", "12")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("SEED_WORKERS", "nope")
	t.Setenv("JWT_SECRET", "s3cret")

	c := Load()
	if c.StorageDriver != DriverMySQL || c.SeedOnStart {
		t.Fatalf("mysql driver should not seed by default: %+v", c)
	}
	if c.TaxRate != 12 || c.SeedWorkers != 8 {
		t.Fatalf("unexpected ints: %+v", c)
	}
	if len(c.CORSOrigins) != 2 || c.CORSOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins: %v", c.CORSOrigins)
	}
	if len(c.Warnings) != 1 || !strings.Contains(c.Warnings[0], "SEED_WORKERS") {
		t.Fatalf("bad integer should be reported: %v", c.Warnings)
	}

	t.Setenv("STORAGE_DRIVER", "postgres")
	if c := Load(); c.StorageDriver != DriverMemory {
		t.Fatalf("unknown driver should fall back to memory, got %s", c.StorageDriver)
	}
}
