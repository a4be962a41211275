package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/carrental")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.IsProduction)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessTokenTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, 30*time.Second, cfg.AvailabilityCacheTTL)
	assert.Equal(t, int64(5<<20), cfg.MaxUploadBytes)
	assert.Empty(t, cfg.RedisURL)
	assert.Empty(t, cfg.RabbitMQURL)
	assert.False(t, cfg.ApplySchema)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("JWT_ACCESS_TOKEN_TTL", "1h")
	t.Setenv("REDIS_URL", "redis://cache:6379/0")
	t.Setenv("AVAILABILITY_CACHE_TTL", "2m")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("DB_APPLY_SCHEMA", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction)
	assert.Equal(t, time.Hour, cfg.JWTAccessTokenTTL)
	assert.Equal(t, "redis://cache:6379/0", cfg.RedisURL)
	assert.Equal(t, 2*time.Minute, cfg.AvailabilityCacheTTL)
	assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
	assert.True(t, cfg.ApplySchema)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing dsn", env: map[string]string{"DB_DSN": "", "JWT_SECRET": "s"}},
		{name: "missing secret", env: map[string]string{"DB_DSN": "x", "JWT_SECRET": ""}},
		{name: "bad ttl", env: map[string]string{"DB_DSN": "x", "JWT_SECRET": "s", "JWT_ACCESS_TOKEN_TTL": "soon"}},
		{name: "bad cost", env: map[string]string{"DB_DSN": "x", "JWT_SECRET": "s", "BCRYPT_COST": "high"}},
		{name: "bad apply schema", env: map[string]string{"DB_DSN": "x", "JWT_SECRET": "s", "DB_APPLY_SCHEMA": "sometimes"}},
		{name: "bad upload size", env: map[string]string{"DB_DSN": "x", "JWT_SECRET": "s", "MAX_UPLOAD_BYTES": "5MB"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
