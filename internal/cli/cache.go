package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/julicq/is-deprecated-or-not/pkg/cache"
	"github.com/julicq/is-deprecated-or-not/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the HTTP response cache",
	}

	cmd.AddCommand(c.cacheClearCommand("clear"))
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// clearCacheCommand creates the top-level clear-cache shortcut.
func (c *CLI) clearCacheCommand() *cobra.Command {
	return c.cacheClearCommand("clear-cache")
}

// cacheClearCommand creates a command that drops every cached registry
// response.
func (c *CLI) cacheClearCommand(use string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: "Clear all cached HTTP responses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := cfg.OpenCache()
			if err != nil {
				return err
			}
			defer store.Close()

			w := cmd.OutOrStdout()
			clearer, ok := store.(cache.Clearer)
			if !ok {
				return errors.New(errors.ErrCodeUnsupported, "the %s cache cannot be cleared", cfg.Cache.Backend)
			}
			count, err := clearer.Clear(cmd.Context())
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "clear %s cache", cfg.Cache.Backend)
			}
			if count == 0 {
				printInfo(w, "Cache is empty")
				return nil
			}
			printSuccess(w, "Cleared %d cached entries", count)
			printCacheLocation(w, store)
			return nil
		},
	}
}

func printCacheLocation(w io.Writer, store cache.Cache) {
	if fc, ok := store.(*cache.FileCache); ok {
		printDetail(w, "Directory: %s", fc.Dir())
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Cache.Backend != "file" {
				return errors.New(errors.ErrCodeUnsupported, "the %s cache has no directory", cfg.Cache.Backend)
			}
			dir := cfg.Cache.Dir
			if dir == "" {
				if dir, err = cache.DefaultDir(); err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
