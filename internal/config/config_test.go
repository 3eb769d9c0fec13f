package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/dealdesk/internal/config"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.App.Port)
		assert.Equal(t, config.StorePostgres, cfg.App.Store)
		assert.Equal(t, 5*time.Minute, cfg.Redis.BoardTTL)
		assert.False(t, cfg.AuthEnabled())
		assert.Equal(t, "postgres://postgres:@localhost:5432/dealdesk?sslmode=disable", cfg.ConnectionString())
	})

	t.Run("UnknownStore", func(t *testing.T) {
		t.Setenv("STORE", "sqlite")

		_, err := config.Load()
		assert.Error(t, err)
	})

	t.Run("AuthNeedsSecret", func(t *testing.T) {
		t.Setenv("BASIC_AUTH_USER", "admin")
		t.Setenv("BASIC_AUTH_PASS", "secret")

		_, err := config.Load()
		assert.ErrorContains(t, err, "AUTH_SECRET")

		t.Setenv("AUTH_SECRET", "0123456789abcdef")

		cfg, err := config.Load()
		require.NoError(t, err)
		assert.True(t, cfg.AuthEnabled())
	})
}
