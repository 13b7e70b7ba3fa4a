// Package config defines, loads, and validates the StructAlign
// configuration.  Settings come from a YAML file, STRUCTALIGN_* environment
// variables, or both, with environment values taking precedence.
package config

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level            string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format           string   `mapstructure:"format"` // "json" | "console"
	OutputPaths      []string `mapstructure:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// StoreConfig locates the on-disk structure store.
type StoreConfig struct {
	Dir string `mapstructure:"dir"`
}

// CacheConfig holds the Redis structure-cache parameters.  The cache is
// optional; when disabled, resolution goes straight to the store.
type CacheConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Mode          string        `mapstructure:"mode"` // "standalone" | "sentinel" | "cluster"
	Addr          string        `mapstructure:"addr"`
	MasterName    string        `mapstructure:"master_name"`
	SentinelAddrs []string      `mapstructure:"sentinel_addrs"`
	ClusterAddrs  []string      `mapstructure:"cluster_addrs"`
	Username      string        `mapstructure:"username"`
	Password      string        `mapstructure:"password"`
	DB            int           `mapstructure:"db"`
	KeyPrefix     string        `mapstructure:"key_prefix"`
	TTL           time.Duration `mapstructure:"ttl"`
}

// ConvertConfig holds defaults for lifting pairwise results into ensembles.
type ConvertConfig struct {
	Mode string `mapstructure:"mode"` // "rigid" | "flexible"
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration for the structalign CLI and for programs
// embedding the library's infrastructure layer.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Store   StoreConfig   `mapstructure:"store"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Convert ConvertConfig `mapstructure:"convert"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.  It
// returns the first error encountered; callers should treat any error as
// fatal and refuse to start.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	if c.Store.Dir == "" {
		return fmt.Errorf("config: store.dir is required")
	}

	if c.Cache.Enabled {
		switch c.Cache.Mode {
		case "standalone":
			if c.Cache.Addr == "" {
				return fmt.Errorf("config: cache.addr is required when the cache is enabled")
			}
		case "sentinel":
			if c.Cache.MasterName == "" {
				return fmt.Errorf("config: cache.master_name is required in sentinel mode")
			}
			if len(c.Cache.SentinelAddrs) == 0 {
				return fmt.Errorf("config: cache.sentinel_addrs must contain at least one address")
			}
		case "cluster":
			if len(c.Cache.ClusterAddrs) == 0 {
				return fmt.Errorf("config: cache.cluster_addrs must contain at least one address")
			}
		default:
			return fmt.Errorf("config: cache.mode %q is invalid; expected standalone|sentinel|cluster", c.Cache.Mode)
		}
		if c.Cache.DB < 0 {
			return fmt.Errorf("config: cache.db must be ≥ 0, got %d", c.Cache.DB)
		}
		if c.Cache.TTL < 0 {
			return fmt.Errorf("config: cache.ttl must not be negative, got %s", c.Cache.TTL)
		}
	}

	switch c.Convert.Mode {
	case "rigid", "flexible":
	default:
		return fmt.Errorf("config: convert.mode %q is invalid; expected rigid|flexible", c.Convert.Mode)
	}

	return nil
}
