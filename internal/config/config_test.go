package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/db?sslmode=disable")
	t.Setenv("IDENTITY_SOCIALIZER_URL", "http://identity.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "http://identity.test", cfg.Identity.URL)
	assert.Equal(t, 168*time.Hour, cfg.Trending.Window)
	assert.Equal(t, 4, cfg.Trending.Threshold)
	assert.Equal(t, 3*time.Hour, cfg.Trending.Retention)
	assert.Equal(t, 5*time.Second, cfg.Trending.PromotionInterval)
	assert.Equal(t, 5*time.Minute, cfg.Trending.EvictionInterval)
	assert.Equal(t, 10*time.Second, cfg.Notifications.Timeout)
	assert.Equal(t, "http://identity.test", cfg.Notifications.URL, "notifications default to the identity service")
	assert.Equal(t, 300, cfg.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TRENDING_THRESHOLD", "10")
	t.Setenv("TRENDING_WINDOW", "24h")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Trending.Threshold)
	assert.Equal(t, 24*time.Hour, cfg.Trending.Window)
	assert.Equal(t, "text", cfg.App.LogFormat)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.Database.URL = "postgres://localhost/db"
		cfg.Identity.URL = "http://identity.test"
		cfg.App.LogFormat = "json"
		cfg.Trending.Threshold = 4
		cfg.Trending.Window = time.Hour
		cfg.Trending.Retention = time.Hour
		cfg.Trending.PromotionInterval = time.Second
		cfg.Trending.EvictionInterval = time.Minute
		cfg.Notifications.QueueSize = 16
		cfg.Notifications.Workers = 1
		cfg.RateLimit.Requests = 10
		cfg.RateLimit.Window = time.Minute
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "zero threshold", mutate: func(c *Config) { c.Trending.Threshold = 0 }, wantErr: "TRENDING_THRESHOLD"},
		{name: "missing identity url", mutate: func(c *Config) { c.Identity.URL = " " }, wantErr: "IDENTITY_SOCIALIZER_URL"},
		{name: "bad log format", mutate: func(c *Config) { c.App.LogFormat = "xml" }, wantErr: "LOG_FORMAT"},
		{name: "no notification workers", mutate: func(c *Config) { c.Notifications.Workers = 0 }, wantErr: "NOTIFICATION_WORKERS"},
		{name: "zero interval", mutate: func(c *Config) { c.Trending.EvictionInterval = 0 }, wantErr: "intervals"},
		{name: "zero rate limit requests", mutate: func(c *Config) { c.RateLimit.Requests = 0 }, wantErr: "RATE_LIMIT_REQUESTS"},
		{name: "zero rate limit window", mutate: func(c *Config) { c.RateLimit.Window = 0 }, wantErr: "RATE_LIMIT_WINDOW"},
		{name: "negative rate limit window", mutate: func(c *Config) { c.RateLimit.Window = -time.Second }, wantErr: "RATE_LIMIT_WINDOW"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
