package config_test

import (
	"testing"
	"time"

	"app/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_secret")

	cfg, err := config.Load()

	assert.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "test_secret", cfg.JWTSecret)
	assert.Equal(t, "http://localhost:5173", cfg.FEURL)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_secret")
	t.Setenv("PORT", "8081")
	t.Setenv("STORE_TIMEOUT", "2s")
	t.Setenv("POSTGRES_PORT", "5433")

	cfg, err := config.Load()

	assert.NoError(t, err)
	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, 2*time.Second, cfg.StoreTimeout)
	assert.Equal(t, 5433, cfg.PostgresPort)
}
