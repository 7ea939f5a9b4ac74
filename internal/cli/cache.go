package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/emberview/internal/config"
	"github.com/matzehuels/emberview/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the chart artifact cache",
		Long: `Rendered charts are cached by the digest of their inputs and options, in
the cache directory or in Redis when --redis or cache.redis_addr is set.`,
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached chart",
		RunE:  c.runCacheClear,
	}
	clearCmd.Flags().String("redis", "", "clear the Redis cache at host:port")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		RunE:  c.runCachePath,
	}

	cmd.AddCommand(clearCmd, pathCmd)
	return cmd
}

func (c *CLI) runCacheClear(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}
	// --no-cache in the config must not turn clear into a no-op
	cfg.Cache.Disabled = false

	cc, err := c.newCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer cc.Close()

	clearer, ok := cc.(cache.Clearer)
	if !ok {
		printInfo("Cache is empty")
		return nil
	}
	n, err := clearer.Clear(ctx)
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	printSuccess("Cleared %s cached entries", humanize.Comma(int64(n)))
	printDetail("%s", cacheLocation(cc, cfg))
	return nil
}

func (c *CLI) runCachePath(cmd *cobra.Command, _ []string) error {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}
	dir, err := cacheDir(cfg)
	if err != nil {
		return fmt.Errorf("resolve cache directory: %w", err)
	}
	fmt.Fprintln(stdout, dir)
	return nil
}

// cacheLocation describes where cc stores its entries.
func cacheLocation(cc cache.Cache, cfg *config.Config) string {
	switch b := cc.(type) {
	case *cache.FileCache:
		return "Directory: " + b.Dir()
	case *cache.RedisCache:
		return "Redis: " + cfg.Cache.RedisAddr
	}
	return "disabled"
}
