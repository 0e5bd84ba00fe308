package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/partscout/pkg/cache"
	"github.com/matzehuels/partscout/pkg/integrations/autodoc"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the brand directory cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand. With a Redis
// backend only the brand directory key is removed.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget the cached brand directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newCache()
			if err != nil {
				return err
			}
			defer store.Close()

			switch s := store.(type) {
			case *cache.FileCache:
				if err := s.Clear(); err != nil {
					return fmt.Errorf("clear cache: %w", err)
				}
				printSuccess("Cache cleared")
				printDetail("Directory: %s", s.Dir())
			case *cache.NullCache:
				printInfo("Caching is disabled")
			default:
				if err := store.Delete(cmd.Context(), autodoc.BrandsCacheKey(c.config().Catalog.BaseURL)); err != nil {
					return fmt.Errorf("clear cache: %w", err)
				}
				printSuccess("Brand directory removed from %s", c.config().Cache.RedisAddr)
			}
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
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
