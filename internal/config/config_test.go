package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_ENV", "DB_DRIVER", "DATABASE_DSN", "TABLE_PREFIX", "SITE_TIMEZONE",
		"SITE_LOCALE", "REDIS_URL", "CACHE_TTL_LIST", "RL_IP_LIMIT", "HTTP_READ_TIMEOUT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("should_return_error_if_dsn_is_missing", func(t *testing.T) {
		clearEnv(t)
		cfg, err := Load()
		assert.Nil(t, cfg)
		require.Error(t, err)
		assert.Equal(t, "missing DATABASE_DSN", err.Error())
	})

	t.Run("should_load_defaults", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DATABASE_DSN", "wp:wp@tcp(localhost:3306)/wordpress")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "dev", cfg.AppEnv)
		assert.Equal(t, "mysql", cfg.DBDriver)
		assert.Equal(t, "wp_", cfg.TablePrefix)
		assert.Equal(t, "event", cfg.EventPostType)
		assert.Equal(t, "production", cfg.ProductionPostType)
		assert.Equal(t, "en_US", cfg.SiteLocale)
		assert.Equal(t, "UTC", cfg.SiteTimezone)
		assert.Equal(t, 15*time.Second, cfg.CacheTTLList)
		assert.Empty(t, cfg.RedisURL)
		assert.True(t, cfg.RLEnabled)
		assert.Equal(t, 100, cfg.RLLimit)
	})

	t.Run("should_reject_unknown_driver", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DATABASE_DSN", "x")
		t.Setenv("DB_DRIVER", "postgres")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported DB_DRIVER")
	})

	t.Run("should_reject_unknown_timezone", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DATABASE_DSN", "x")
		t.Setenv("SITE_TIMEZONE", "Mars/Olympus")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid SITE_TIMEZONE")
	})

	t.Run("should_fail_in_prod_with_sqlite", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("APP_ENV", "prod")
		t.Setenv("DATABASE_DSN", "file:wp.db")
		t.Setenv("DB_DRIVER", "sqlite")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "only allowed when APP_ENV=dev")
	})
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_KEY", "  value_with_spaces  ")
	assert.Equal(t, "value_with_spaces", getEnv("TEST_KEY", "default"))
	assert.Equal(t, "default", getEnv("TEST_KEY_MISSING", "default"))
}

func TestGetDuration(t *testing.T) {
	t.Setenv("TEST_DUR", "5s")
	assert.Equal(t, 5*time.Second, getDuration("TEST_DUR", 10*time.Second))

	t.Setenv("TEST_DUR", "invalid")
	assert.Equal(t, 10*time.Second, getDuration("TEST_DUR", 10*time.Second))
}

func TestGetIntEnv(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	assert.Equal(t, 42, getIntEnv("TEST_INT", 1))

	t.Setenv("TEST_INT", "x")
	assert.Equal(t, 1, getIntEnv("TEST_INT", 1))
}
