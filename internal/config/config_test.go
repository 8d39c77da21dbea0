package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"SECRET", "HTTP_PORT", "DATABASE_DRIVER", "DATABASE_DSN", "CORS_ORIGINS", "APP_ENV", "SEED_PRODUCTS_CSV"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "dev_secret", cfg.Secret)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, "petshop.db", cfg.DatabaseDSN)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.Development())
}

func TestLoadPostgresFromParts(t *testing.T) {
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "shop")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "grooming")

	cfg := Load()

	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	assert.Equal(t, "postgres://shop:secret@db:5433/grooming?sslmode=disable", cfg.DatabaseDSN)
}

func TestLoadInvalidPortAndOrigins(t *testing.T) {
	t.Setenv("HTTP_PORT", "eighty")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://shop.example.com ,")
	t.Setenv("APP_ENV", "development")

	cfg := Load()

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, []string{"http://localhost:3000", "https://shop.example.com"}, cfg.CORSOrigins)
	assert.True(t, cfg.Development())
}
