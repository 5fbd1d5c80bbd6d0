package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/compcheck/pkg/cache"
	"github.com/matzehuels/compcheck/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the persistent registry cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// fileCacheDir returns the file cache directory for the current config.
func (c *CLI) fileCacheDir(cmd *cobra.Command) (string, error) {
	cfg, err := c.loadConfig(cmd.Context(), ".")
	if err != nil {
		return "", err
	}
	if cfg.Cache.Backend != "" && cfg.Cache.Backend != config.BackendFile {
		loggerFromContext(cmd.Context()).Warn("configured backend is not the file cache", "backend", cfg.Cache.Backend)
	}
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return "", fmt.Errorf("get cache dir: %w", err)
	}
	return dir, nil
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached registries",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.fileCacheDir(cmd)
			if err != nil {
				return err
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			count, err := fc.Clear()
			if err != nil {
				return err
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.fileCacheDir(cmd)
			if err != nil {
				return err
			}
			fmt.Println(dir)
			return nil
		},
	}
}
