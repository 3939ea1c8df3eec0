package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bellapacxx/bingo-rooms/models"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.HTTP.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, models.ClassicRules, cfg.App.DefaultRules)
	assert.Equal(t, "bingo", cfg.Redis.Prefix)
	assert.Zero(t, cfg.Redis.TTL)
	assert.Empty(t, cfg.NATS.URL)
}

func TestLoad_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("port", "8080")
	v.Set("store_driver", " Redis ")
	v.Set("redis_addr", "cache:6379")
	v.Set("redis_db", "2")
	v.Set("redis_ttl", "24h")
	v.Set("default_rules", "dashboard")
	v.Set("cors_origins", "https://a.example, https://b.example,")

	cfg, err := load(v)
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, DriverRedis, cfg.Store.Driver)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 24*time.Hour, cfg.Redis.TTL)
	assert.Equal(t, models.DashboardRules, cfg.App.DefaultRules)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORSOrigins)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("LOG_LEVEL", "debug")

	v := viper.New()
	v.AutomaticEnv()
	cfg, err := load(v)
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.HTTP.Port)
	assert.Equal(t, "debug", cfg.App.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	for name, set := range map[string]map[string]string{
		"unknown driver":       {"store_driver": "mongo"},
		"postgres without url": {"store_driver": "postgres"},
		"unknown rules preset": {"default_rules": "bingo90"},
		"empty port":           {"port": ""},
	} {
		t.Run(name, func(t *testing.T) {
			v := viper.New()
			for k, val := range set {
				v.Set(k, val)
			}
			_, err := load(v)
			assert.ErrorIs(t, err, models.ErrInvalidConfiguration)
		})
	}
}
