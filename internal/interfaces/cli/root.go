// Package cli implements the structalign command tree: converting pairwise
// alignment results into ensemble documents, inspecting and scoring
// documents, computing distance matrices, and managing the structure store.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/StructAlign/internal/application/alignment"
	"github.com/turtacn/StructAlign/internal/config"
	"github.com/turtacn/StructAlign/internal/domain/structure"
	"github.com/turtacn/StructAlign/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/StructAlign/internal/infrastructure/structcache"
	"github.com/turtacn/StructAlign/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

type cliContextKey struct{}

// RootOptions holds the global flags.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	Output     string
	StoreDir   string
	Verbose    bool
	Timeout    time.Duration
}

// CLIContext carries the initialized dependencies through the command tree.
type CLIContext struct {
	Config  *config.Config
	Logger  logging.Logger
	Service alignment.Service
	Store   *structcache.FileStore
	Output  string
	Timeout time.Duration
}

// NewRootCommand creates the root command with all global flags and
// subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "structalign",
		Short: "Multiple structure alignment toolkit",
		Long: "structalign converts pairwise structure alignment results into the\n" +
			"multiple-alignment ensemble model, inspects ensemble documents, and\n" +
			"computes per-structure distance matrices.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: search ./structalign.yaml)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level override (debug, info, warn, error)")
	pf.StringVarP(&opts.Output, "output", "o", "text", "output format (text, json)")
	pf.StringVar(&opts.StoreDir, "store", "", "structure store directory override")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")
	pf.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "operation timeout")

	cmd.AddCommand(
		newConvertCommand(),
		newInspectCommand(),
		newDistMatCommand(),
		newStoreCommand(),
		newVersionCommand(),
	)
	return cmd
}

// Execute runs the command tree and maps the failure to an exit status.
func Execute() int {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())
		return errors.ExitStatusForCode(errors.GetCode(err))
	}
	return 0
}

// ─────────────────────────────────────────────────────────────────────────────
// Initialization chain
// ─────────────────────────────────────────────────────────────────────────────

func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	if opts.Output != "text" && opts.Output != "json" {
		return errors.InvalidParam("output format must be \"text\" or \"json\"").
			WithDetail(opts.Output)
	}

	cfg, err := initConfig(opts)
	if err != nil {
		return err
	}
	logger, err := initLogger(cfg, opts)
	if err != nil {
		return err
	}

	store := structcache.NewFileStore(cfg.Store.Dir, logger)
	var provider structure.Provider = store
	if cfg.Cache.Enabled {
		client, err := structcache.NewRedisClient(redisConfigFrom(cfg.Cache), logger)
		if err != nil {
			logger.Warn("structure cache unavailable, using the store directly", logging.Err(err))
		} else {
			provider = structcache.NewRedisProvider(client, store, logger,
				structcache.WithKeyPrefix(cfg.Cache.KeyPrefix),
				structcache.WithTTL(cfg.Cache.TTL),
			)
		}
	}

	cliCtx := &CLIContext{
		Config:  cfg,
		Logger:  logger,
		Service: alignment.NewService(provider, nil, logger),
		Store:   store,
		Output:  opts.Output,
		Timeout: opts.Timeout,
	}
	cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey{}, cliCtx))
	return nil
}

// initConfig loads the configuration, looking through the usual locations
// when no path is given and falling back to defaults plus environment.
func initConfig(opts *RootOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case opts.ConfigPath != "":
		cfg, err = config.Load(opts.ConfigPath)
	default:
		cfg, err = loadFromSearchPaths()
	}
	if err != nil {
		return nil, err
	}
	if opts.StoreDir != "" {
		cfg.Store.Dir = opts.StoreDir
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFromSearchPaths() (*config.Config, error) {
	paths := []string{"./structalign.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".structalign", "config.yaml"))
	}
	paths = append(paths, "/etc/structalign/config.yaml")

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return config.Load(p)
		}
	}
	return config.LoadFromEnv()
}

// initLogger builds the CLI logger: console format on stderr, level from the
// configuration unless the flags raise it.
func initLogger(cfg *config.Config, opts *RootOptions) (logging.Logger, error) {
	level := cfg.Log.Level
	if opts.Verbose {
		level = "debug"
	}
	return logging.NewLogger(logging.LogConfig{
		Level:            level,
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	})
}

func redisConfigFrom(c config.CacheConfig) *structcache.RedisConfig {
	return &structcache.RedisConfig{
		Mode:          c.Mode,
		Addr:          c.Addr,
		MasterName:    c.MasterName,
		SentinelAddrs: c.SentinelAddrs,
		ClusterAddrs:  c.ClusterAddrs,
		Username:      c.Username,
		Password:      c.Password,
		DB:            c.DB,
		KeyPrefix:     c.KeyPrefix,
		TTL:           c.TTL,
	}
}

func getCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.InvalidState("command context is not initialized")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.InvalidState("command context is not initialized")
	}
	return cliCtx, nil
}

// operationContext derives the context service calls run under.
func operationContext(cmd *cobra.Command, cliCtx *CLIContext) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), cliCtx.Timeout)
}

// ─────────────────────────────────────────────────────────────────────────────
// Input and output helpers
// ─────────────────────────────────────────────────────────────────────────────

// readDocument decodes the JSON file at path into v.
func readDocument(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.New(errors.ErrCodeNotFound, "input file not found").WithDetail(path)
		}
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to read input file").WithDetail(path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode input file").
			WithDetail(path)
	}
	return nil
}

// writeJSON writes v as indented JSON to path, or to the command's stdout
// when path is empty.
func writeJSON(cmd *cobra.Command, path string, v interface{}) error {
	if path == "" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode output")
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to write output file").
			WithDetail(path)
	}
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "structalign %s (commit: %s, built: %s)\n",
				Version, GitCommit, BuildDate)
		},
	}
}
