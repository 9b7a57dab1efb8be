package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/canvasrender/pkg/cache"
	"github.com/matzehuels/canvasrender/pkg/httputil"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the render and image caches",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "clear [renders|images]",
		Short:     "Clear cached renders and downloaded images",
		ValidArgs: []string{"renders", "images"},
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := c.cacheDir()
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			which := ""
			if len(args) == 1 {
				which = args[0]
			}
			total := 0
			if which == "" || which == "renders" {
				n, err := clearRenders(filepath.Join(dir, "renders"))
				if err != nil {
					return fmt.Errorf("clear renders: %w", err)
				}
				total += n
			}
			if which == "" || which == "images" {
				n, err := clearImages(filepath.Join(dir, "images"))
				if err != nil {
					return fmt.Errorf("clear images: %w", err)
				}
				total += n
			}

			printSuccess("Cleared %d cached entries", total)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

func clearRenders(dir string) (int, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return 0, nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return 0, err
	}
	return fc.Clear()
}

func clearImages(dir string) (int, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return 0, nil
	}
	hc, err := httputil.NewCache(dir, imageCacheTTL)
	if err != nil {
		return 0, err
	}
	return hc.Clear()
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), c.cacheDir())
		},
	}
}
