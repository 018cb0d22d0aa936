package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"DATABASE_URL": "postgres://localhost/cotacao",
		"REDIS_URL":    "redis://localhost:6379/0",
	})
	require.NoError(t, err)
	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.True(t, cfg.MigrateOnStart)
	require.Equal(t, 20, cfg.CatalogDefaultLimit)
	require.Equal(t, 30*time.Second, cfg.CashbookOverviewTTL)
	require.Equal(t, "300-M", cfg.RateLimitSpec)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	_, err := LoadForTests(map[string]string{
		"DATABASE_URL": "",
		"REDIS_URL":    "redis://localhost:6379/0",
	})
	require.Error(t, err)
}

func TestHTTPAddrKeepsColonPrefix(t *testing.T) {
	cfg := &Config{Port: ":9090"}
	require.Equal(t, ":9090", cfg.HTTPAddr())
}
