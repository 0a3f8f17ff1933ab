package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_USER", "cocktailgram")
	t.Setenv("DB_NAME", "cocktailgram")
	t.Setenv("JWT_SECRET", "test-secret")
	// Keep the secrets fallback out of the way.
	t.Setenv("SECRETS_DIR", t.TempDir())
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Empty(t, cfg.RedisHost)
	assert.Empty(t, cfg.S3Bucket)
}

func TestLoadConfigMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWTSecret")
}

func TestLoadConfigInvalidPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "not-a-port")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ServerPort")
}

func TestLoadConfigInvalidRedisDB(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestSecretsFallback(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_PASSWORD", "")

	dir := t.TempDir()
	t.Setenv("SECRETS_DIR", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "db_password"), []byte("s3cret\n"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.DBPassword)

	t.Run("environment wins over the secret file", func(t *testing.T) {
		t.Setenv("DB_PASSWORD", "from-env")
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.DBPassword)
	})
}
