package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/widgetshare/pkg/cache"
	"github.com/matzehuels/widgetshare/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the export artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			count, where, err := clearCache(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Location: %s", where)
			return nil
		},
	}
}

// clearCache empties the configured backend and reports where it lives.
func clearCache(ctx context.Context, cfg *config.Config) (int, string, error) {
	switch cfg.Cache.Backend {
	case config.CacheFile:
		fc, err := cache.NewFileCache(cfg.Cache.Dir)
		if err != nil {
			return 0, cfg.Cache.Dir, fmt.Errorf("open cache: %w", err)
		}
		defer fc.Close()
		n, err := fc.Clear()
		return n, fc.Dir(), err
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, redisOptions(cfg))
		if err != nil {
			return 0, cacheLocation(cfg), fmt.Errorf("connect to redis: %w", err)
		}
		defer rc.Close()
		n, err := rc.Clear(ctx)
		return n, cacheLocation(cfg), err
	default:
		return 0, cacheLocation(cfg), nil
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where cached artifacts are stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, cacheLocation(cfg))
			return nil
		},
	}
}

// cacheLocation describes the configured backend: a directory, a redis URL
// or "disabled".
func cacheLocation(cfg *config.Config) string {
	switch cfg.Cache.Backend {
	case config.CacheFile:
		return cfg.Cache.Dir
	case config.CacheRedis:
		return fmt.Sprintf("redis://%s/%d (prefix %s:)", cfg.Cache.RedisAddr, cfg.Cache.RedisDB, appName)
	default:
		return "disabled"
	}
}
