package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/compcheck/pkg/buildinfo"
	"github.com/matzehuels/compcheck/pkg/cache"
	"github.com/matzehuels/compcheck/pkg/config"
	"github.com/matzehuels/compcheck/pkg/observability"
	"github.com/matzehuels/compcheck/pkg/observability/prom"
	"github.com/matzehuels/compcheck/pkg/pipeline"
	"github.com/matzehuels/compcheck/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "compcheck"

	// redisPrefix scopes keys in a shared Redis.
	redisPrefix = appName + ":"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// ErrFindings is returned by check when findings were reported and
// --fail-on-findings is set. main maps it to exit status 1.
var ErrFindings = errors.New("findings reported")

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath  string
	configUsed  string
	noCache     bool
	metricsFile string
	metrics     *prom.Metrics
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "compcheck validates ECS component dependencies and conflicts",
		Long: `compcheck statically checks an ECS codebase for component composition errors:
components added before their dependencies, conflicting components on one
entity, contradictory or cyclic declarations, and queries that can never match.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			if c.metricsFile != "" {
				c.metrics = prom.New(prometheus.NewRegistry())
				observability.SetAnalysisHooks(c.metrics)
				observability.SetCacheHooks(c.metrics)
			}
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default: .compcheck.{toml,yaml,yml} in the root)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the persistent registry cache")
	root.PersistentFlags().StringVar(&c.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")

	root.AddCommand(c.checkCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.registryCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// Finish flushes metrics. main calls it after the command returns.
func (c *CLI) Finish() error {
	if c.metrics == nil {
		return nil
	}
	defer observability.Reset()
	return c.metrics.WriteTextfile(c.metricsFile)
}

// =============================================================================
// Runner Factory
// =============================================================================

// loadConfig resolves the configuration for root and logs which file was
// used.
func (c *CLI) loadConfig(ctx context.Context, root string) (config.Config, error) {
	cfg, used, err := config.Resolve(root, c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if used != "" {
		loggerFromContext(ctx).Debug("loaded config", "path", used)
	}
	c.configUsed = used
	return cfg, nil
}

// newRunner creates a pipeline runner whose session matches cfg.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config) (*pipeline.Runner, error) {
	logger := loggerFromContext(ctx)
	ttl, err := cfg.CacheTTL()
	if err != nil {
		return nil, err
	}
	store, keyer, err := c.newCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s := session.New(session.Options{
		Methods:  cfg.Methods,
		Cache:    store,
		Keyer:    keyer,
		TTL:      ttl,
		Semantic: cfg.Semantic,
		Logger:   logger,
	})
	return pipeline.NewRunner(s, logger), nil
}

// newCache opens the configured persistent tier. An unreachable Redis
// degrades to no cache.
func (c *CLI) newCache(ctx context.Context, cfg config.Config) (cache.Cache, cache.Keyer, error) {
	logger := loggerFromContext(ctx)
	if c.noCache {
		return nil, nil, nil
	}
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return nil, nil, nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			logger.Warn("redis cache unavailable, continuing without cache", "addr", cfg.Cache.RedisAddr, "error", err)
			return nil, nil, nil
		}
		return rc, cache.NewScopedKeyer(cache.NewDefaultKeyer(), redisPrefix), nil
	default:
		dir := cfg.Cache.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				logger.Debug("no cache directory", "error", err)
				return nil, nil, nil
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, nil, err
		}
		return fc, nil, nil
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/compcheck/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// rootArg returns the analyzed directory from args.
func rootArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
