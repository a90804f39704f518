package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:5173, http://127.0.0.1:5173")

	cfg := Load()
	require.NotNil(t, cfg)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 720*time.Hour, cfg.RefreshTokenTTL)
	assert.NotEmpty(t, cfg.JWTSecret, "development should generate a secret")
	assert.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, cfg.AllowedOrigins)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.S3Configured())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "a-sufficiently-long-secret-for-tests-0123456789")
	t.Setenv("JWT_ACCESS_TTL", "5m")
	t.Setenv("DB_DRIVER", DriverPostgres)
	t.Setenv("S3_ACCESS_KEY_ID", "key")
	t.Setenv("S3_SECRET_ACCESS_KEY", "secret")
	t.Setenv("S3_BUCKET", "documents")

	cfg := Load()

	assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.True(t, cfg.S3Configured())
}

func TestValidateJWTSecret(t *testing.T) {
	t.Run("Insecure default allowed in development", func(t *testing.T) {
		assert.NoError(t, ValidateJWTSecret("change-me", "development"))
		assert.NoError(t, ValidateJWTSecret("", "development"))
	})

	t.Run("Insecure default rejected in production", func(t *testing.T) {
		assert.Error(t, ValidateJWTSecret("change-me", "production"))
		assert.Error(t, ValidateJWTSecret("", "production"))
	})

	t.Run("Short secret rejected in production", func(t *testing.T) {
		assert.Error(t, ValidateJWTSecret("short-but-unique", "production"))
	})

	t.Run("Long secret accepted in production", func(t *testing.T) {
		assert.NoError(t, ValidateJWTSecret("0123456789abcdef0123456789abcdef", "production"))
	})
}

func TestGenerateSecureSecret(t *testing.T) {
	a := GenerateSecureSecret()
	b := GenerateSecureSecret()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
