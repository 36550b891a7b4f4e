// Package cli implements the mirrorsnap command-line interface.
//
// This package provides commands for snapshotting a package registry,
// resolving snapshot entries back to absolute URLs, and managing the
// HTTP response cache. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - snapshot: Crawl the registry and emit artifact paths
//   - resolve: Turn snapshot entries into absolute URLs
//   - cache: Manage the HTTP response cache
//
// # Output
//
// Stdout carries data (snapshot entries, resolved URLs). Logging, status
// and progress all go to stderr so output can be piped or redirected.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// are passed through context.Context.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mirrorlab/mirrorsnap/internal/config"
	"github.com/mirrorlab/mirrorsnap/pkg/buildinfo"
	"github.com/mirrorlab/mirrorsnap/pkg/cache"
)

// appName is the application name used for directories and display.
const appName = "mirrorsnap"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
	cfg        config.Config
}

// New creates a new CLI instance logging to w at the given level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands
// registered. The config file is loaded before any command runs; flags
// that were explicitly set override its values.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Mirrorsnap snapshots package registries for mirroring",
		Long: `Mirrorsnap takes a point-in-time snapshot of a package registry. It
discovers every package, crawls the listing pages concurrently, and
emits the artifact paths a mirror has to fetch, relative to the
registry's storage base. The resolve command turns those paths back
into absolute URLs for a later transfer stage.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.Logger.SetLevel(log.DebugLevel)
				installDebugHooks(c.Logger)
			}
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/mirrorsnap/config.toml)")

	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Cache Factory
// =============================================================================

// newCache builds the response cache backend named by the configuration.
func (c *CLI) newCache(ctx context.Context, backend string) (cache.Cache, error) {
	switch backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendFile:
		dir, err := c.cacheLocation()
		if err != nil {
			return nil, fmt.Errorf("get cache dir: %w", err)
		}
		return cache.NewFileCache(dir)
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, c.cfg.Cache.RedisAddr, c.cfg.Cache.RedisPassword, c.cfg.Cache.RedisDB)
	default:
		return nil, fmt.Errorf("unknown cache backend %q (want none, file or redis)", backend)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheLocation resolves the file cache directory, honoring the config
// override.
func (c *CLI) cacheLocation() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/mirrorsnap/).
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
