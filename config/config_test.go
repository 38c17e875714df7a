package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 10*time.Minute, cfg.Cache.UserTTL)
	assert.Zero(t, cfg.JWT.TTL)
	assert.Equal(t, "socialverse:relay", cfg.Relay.RedisChannel)
}

func TestLoadLegacyEnv(t *testing.T) {
	t.Setenv("MONGO_URI", "postgres://u:p@localhost/social")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "8081")
	t.Setenv("FRONTEND_URL", "https://example.com")

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "postgres://u:p@localhost/social", cfg.Database.DSN)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, "https://example.com", cfg.Server.CORSOrigin)
	assert.NoError(t, cfg.Validate())
}

func TestLoadNestedEnv(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("JWT_TTL", "24h")
	t.Setenv("RELAY_SEND_BUFFER", "8")

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, 8, cfg.Relay.SendBuffer)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	assert.ErrorIs(t, cfg.Validate(), ErrMissingDSN)

	cfg.Database.DSN = "file::memory:"
	assert.ErrorIs(t, cfg.Validate(), ErrMissingSecret)

	cfg.JWT.Secret = "x"
	assert.NoError(t, cfg.Validate())
}
