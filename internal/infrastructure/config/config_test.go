package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "recipe_app", cfg.Mongo.Database)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "./media", cfg.Media.Root)
	assert.Equal(t, 10, cfg.Throttle.Attempts)
	assert.Equal(t, time.Minute, cfg.Throttle.Window)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":              "s3cret",
		"PORT":                    "9090",
		"ENV":                     "production",
		"TOKEN_TTL":               "2h",
		"MONGO_DB":                "recipes_test",
		"REDIS_DB":                "3",
		"LOGIN_THROTTLE_ATTEMPTS": "0",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "recipes_test", cfg.Mongo.Database)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 0, cfg.Throttle.Attempts)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadWith_MissingSecret(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("RECIPE_DOTENV_PROBE=from-file\n"), 0o600))
	t.Setenv("RECIPE_DOTENV_PROBE", "")
	require.NoError(t, os.Unsetenv("RECIPE_DOTENV_PROBE"))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("RECIPE_DOTENV_PROBE"))

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}
