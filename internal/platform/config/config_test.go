package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	t.Run("missing session cookie is fatal", func(t *testing.T) {
		t.Setenv("ROBLOX_COOKIE", "")
		t.Setenv("RANKGATE_API_KEY", "secret")

		_, err := FromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ROBLOX_COOKIE")
	})

	t.Run("missing api key is fatal", func(t *testing.T) {
		t.Setenv("ROBLOX_COOKIE", "cookie")
		t.Setenv("RANKGATE_API_KEY", "")

		_, err := FromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RANKGATE_API_KEY")
	})

	t.Run("defaults applied", func(t *testing.T) {
		t.Setenv("ROBLOX_COOKIE", "cookie")
		t.Setenv("RANKGATE_API_KEY", "secret")

		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, int64(9429240), cfg.GroupID)
		assert.NotZero(t, cfg.UpstreamTimeout)
	})

	t.Run("invalid group id rejected", func(t *testing.T) {
		t.Setenv("ROBLOX_COOKIE", "cookie")
		t.Setenv("RANKGATE_API_KEY", "secret")
		t.Setenv("RANKGATE_GROUP_ID", "not-a-number")

		_, err := FromEnv()
		require.Error(t, err)
	})

	t.Run("overrides applied", func(t *testing.T) {
		t.Setenv("ROBLOX_COOKIE", "cookie")
		t.Setenv("RANKGATE_API_KEY", "secret")
		t.Setenv("RANKGATE_ADDR", ":5000")
		t.Setenv("RANKGATE_GROUP_ID", "123456")
		t.Setenv("RANKGATE_UPSTREAM_TIMEOUT", "3s")

		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, ":5000", cfg.Addr)
		assert.Equal(t, int64(123456), cfg.GroupID)
		assert.Equal(t, "3s", cfg.UpstreamTimeout.String())
	})
}
