package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnvDefaults(t *testing.T) {
	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", cfg.Addr())
	assert.Equal(t, 0, cfg.DB)
	assert.Equal(t, 10, cfg.PoolSize)
}

func TestLoadConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("REDIS_HOST", "redis.internal")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_DB", "2")

	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "redis.internal:6380", cfg.Addr())
	assert.Equal(t, 2, cfg.DB)
}

func TestLoadConfigFromEnvInvalidPort(t *testing.T) {
	t.Setenv("REDIS_PORT", "not-a-port")
	_, err := LoadConfigFromEnv()
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	valid := Config{Host: "localhost", Port: 6379, PoolSize: 1}
	assert.NoError(t, valid.Validate())

	assert.Error(t, Config{Host: "", Port: 6379, PoolSize: 1}.Validate())
	assert.Error(t, Config{Host: "h", Port: 6379, DB: -1, PoolSize: 1}.Validate())
	assert.Error(t, Config{Host: "h", Port: 6379, PoolSize: 0}.Validate())
}
