package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultStoreDir = "./structures"

	DefaultCacheMode      = "standalone"
	DefaultCacheAddr      = "localhost:6379"
	DefaultCacheKeyPrefix = "structalign:structure:"
	DefaultCacheTTL       = 15 * time.Minute

	DefaultConvertMode = "rigid"
)

// ApplyDefaults fills every zero-value field in cfg with its default.  Fields
// already set by the caller are left unchanged so explicit configuration
// always wins.  Load and LoadFromEnv call this before Validate; it is
// exported for programs that assemble a Config in code.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if len(cfg.Log.OutputPaths) == 0 {
		cfg.Log.OutputPaths = []string{"stderr"}
	}
	if len(cfg.Log.ErrorOutputPaths) == 0 {
		cfg.Log.ErrorOutputPaths = []string{"stderr"}
	}

	// ── Store ─────────────────────────────────────────────────────────────────
	if cfg.Store.Dir == "" {
		cfg.Store.Dir = DefaultStoreDir
	}

	// ── Cache ─────────────────────────────────────────────────────────────────
	if cfg.Cache.Mode == "" {
		cfg.Cache.Mode = DefaultCacheMode
	}
	if cfg.Cache.Addr == "" {
		cfg.Cache.Addr = DefaultCacheAddr
	}
	if cfg.Cache.KeyPrefix == "" {
		cfg.Cache.KeyPrefix = DefaultCacheKeyPrefix
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}

	// ── Convert ───────────────────────────────────────────────────────────────
	if cfg.Convert.Mode == "" {
		cfg.Convert.Mode = DefaultConvertMode
	}
}
