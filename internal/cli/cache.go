package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cacheCmd.AddCommand(cachePathCmd)
	cacheCmd.AddCommand(cacheCleanCmd)
	rootCmd.AddCommand(cacheCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the template cache",
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print where the template archive is cached",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := templateRef()
		if err != nil {
			return err
		}
		paths := newFetcher(newLogger(cmd)).CachePaths(ref)
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, paths.Archive)
		fmt.Fprintln(out, paths.Manifest)
		return nil
	},
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the cached template archive",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := templateRef()
		if err != nil {
			return err
		}
		if err := newFetcher(newLogger(cmd)).Purge(ref); err != nil {
			return fmt.Errorf("cleaning cache: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed cached archive for %s\n", ref)
		return nil
	},
}
