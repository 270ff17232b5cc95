package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_PORT", "JWT_SECRET", "JWT_EXPIRATION_HOURS", "DATABASE_DRIVER",
		"DATABASE_DSN", "DATABASE_DIRECTORY", "DATABASE_DIRECTORY_FILE",
		"CORS_ALLOWED_ORIGINS", "AUTH_RATE_LIMIT", "COOKIE_SECURE", "CONFIG_PATH",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("APP_ENV", "production")
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpiration)
	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, "data", cfg.MetadataDbDir)
	assert.Equal(t, "habits.db", cfg.MetadataDbFile)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 20, cfg.AuthRateLimit)
	assert.False(t, cfg.CookieSecure)
}

func TestLoadConfigMissingSecret(t *testing.T) {
	clearEnv(t)

	_, err := LoadConfig()
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestLoadConfigPostgresRequiresDSN(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DATABASE_DRIVER", "pgx")

	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("DATABASE_DSN", "postgres://localhost/habits")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DATABASE_DRIVER", "oracle")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigYAMLWithEnvOverride(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server-port: "9090"
jwt:
  secret: from-file
  expiration-hours: 12
database:
  directory: /tmp/habits
cors-allowed-origins:
  - https://habits.example.com
auth-rate-limit: 7
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SERVER_PORT", ":7070")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.ServerPort)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, 12*time.Hour, cfg.JWTExpiration)
	assert.Equal(t, "/tmp/habits", cfg.MetadataDbDir)
	assert.Equal(t, []string{"https://habits.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 7, cfg.AuthRateLimit)
}

func TestLoadConfigInvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JWT_EXPIRATION_HOURS", "-3")
	t.Setenv("AUTH_RATE_LIMIT", "lots")
	t.Setenv("COOKIE_SECURE", "maybe")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpiration)
	assert.Equal(t, 20, cfg.AuthRateLimit)
	assert.False(t, cfg.CookieSecure)
}
