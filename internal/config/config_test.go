package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/StructAlign/internal/config"
)

// validConfig returns a Config that passes Validate().
func validConfig() *config.Config {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	return cfg
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantMsg string
	}{
		{"bad log level", func(c *config.Config) { c.Log.Level = "verbose" }, "log.level"},
		{"bad log format", func(c *config.Config) { c.Log.Format = "text" }, "log.format"},
		{"missing store dir", func(c *config.Config) { c.Store.Dir = "" }, "store.dir"},
		{"cache enabled without addr", func(c *config.Config) {
			c.Cache.Enabled = true
			c.Cache.Addr = ""
		}, "cache.addr"},
		{"sentinel without master", func(c *config.Config) {
			c.Cache.Enabled = true
			c.Cache.Mode = "sentinel"
		}, "cache.master_name"},
		{"sentinel without addrs", func(c *config.Config) {
			c.Cache.Enabled = true
			c.Cache.Mode = "sentinel"
			c.Cache.MasterName = "mymaster"
		}, "cache.sentinel_addrs"},
		{"cluster without addrs", func(c *config.Config) {
			c.Cache.Enabled = true
			c.Cache.Mode = "cluster"
		}, "cache.cluster_addrs"},
		{"bad cache mode", func(c *config.Config) {
			c.Cache.Enabled = true
			c.Cache.Mode = "mesh"
		}, "cache.mode"},
		{"negative cache db", func(c *config.Config) {
			c.Cache.Enabled = true
			c.Cache.DB = -1
		}, "cache.db"},
		{"negative cache ttl", func(c *config.Config) {
			c.Cache.Enabled = true
			c.Cache.TTL = -time.Second
		}, "cache.ttl"},
		{"bad convert mode", func(c *config.Config) { c.Convert.Mode = "bendy" }, "convert.mode"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestConfig_Validate_DisabledCacheSkipsCacheChecks(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Cache.Enabled = false
	cfg.Cache.Mode = "mesh"
	cfg.Cache.DB = -5

	assert.NoError(t, cfg.Validate())
}
