package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix shared by all settings.
const envPrefix = "STRUCTALIGN"

// newViper builds a pre-configured Viper instance: YAML file type,
// STRUCTALIGN_ env prefix, automatic env binding, and a key replacer that
// maps "." to "_" so "store.dir" resolves to "STRUCTALIGN_STORE_DIR".
//
// Every key is registered with its default here.  Viper only consults the
// environment for keys it knows about, so without this registration an env
// var whose key is absent from the config file would be silently ignored.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("log.output_paths", []string{"stderr"})
	v.SetDefault("log.error_output_paths", []string{"stderr"})

	v.SetDefault("store.dir", DefaultStoreDir)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.mode", DefaultCacheMode)
	v.SetDefault("cache.addr", DefaultCacheAddr)
	v.SetDefault("cache.master_name", "")
	v.SetDefault("cache.sentinel_addrs", []string{})
	v.SetDefault("cache.cluster_addrs", []string{})
	v.SetDefault("cache.username", "")
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.key_prefix", DefaultCacheKeyPrefix)
	v.SetDefault("cache.ttl", DefaultCacheTTL)

	v.SetDefault("convert.mode", DefaultConvertMode)

	return v
}

// Load reads the YAML file at configPath, merges STRUCTALIGN_* environment
// overrides, fills defaults, and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from STRUCTALIGN_* environment variables alone,
// with no config file.  Every field has a default, so an empty environment
// yields a valid configuration.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath and invokes onChange with the newly parsed Config
// whenever the file is modified on disk.  Intended for hot-reloading settings
// that are safe to change at runtime, such as the log level; the caller
// decides which subset to apply.
//
// Watch is non-blocking; viper manages the watching goroutine.  A change that
// fails to parse or validate does not invoke onChange, so the application
// never observes a broken configuration.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Callers load first; an unreadable file here will surface on change.
	_ = v.ReadInConfig()

	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
}

// MustLoad wraps Load and panics on error.  For use in main(), where a
// config-load failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
