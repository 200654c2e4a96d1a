package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"STORE_BACKEND", "GEMINI_TIMEOUT", "GEMINI_MODEL", "JWT_SECRET", "KAFKA_BROKERS", "PORT", "REDIS_DB", "TOKEN_TTL", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3210", cfg.Port)
	assert.Equal(t, "postgres", cfg.Store.Backend)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 20*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, "zapstock.events", cfg.Kafka.Topic)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.AuthEnabled())
}

func TestLoadParsesLists(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("STORE_BACKEND", "Redis")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "redis", cfg.Store.Backend)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("backend", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "sqlite")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("timeout", func(t *testing.T) {
		t.Setenv("GEMINI_TIMEOUT", "soon")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("secret without password", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("OPERATOR_PASSWORD_HASH", "")
		_, err := Load()
		assert.Error(t, err)
	})
}
