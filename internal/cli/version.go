package cli

import (
	"encoding/json"
	"fmt"

	"github.com/frenzzy/hyperapp-create/internal/branding"
	"github.com/frenzzy/hyperapp-create/internal/release"
	"github.com/spf13/cobra"
)

var (
	versionShort   bool
	versionJSON    bool
	versionCheck   bool
	releaseAPIBase = release.DefaultAPIBase
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")
	versionCmd.Flags().BoolVar(&versionCheck, "check", false, "Check GitHub for a newer release")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if versionCheck {
			return checkRelease(cmd)
		}

		if versionShort {
			fmt.Fprintln(out, buildVersion)
			return nil
		}

		if versionJSON {
			info := map[string]string{
				"version": buildVersion,
				"commit":  buildCommit,
				"date":    buildDate,
			}
			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling version info: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintf(out, "%s version %s (commit: %s, built: %s)\n", branding.CLIName(), buildVersion, buildCommit, buildDate)
		return nil
	},
}

func checkRelease(cmd *cobra.Command) error {
	ch := release.New(buildVersion, release.WithAPIBase(releaseAPIBase))
	rel, newer, err := ch.Check(cmd.Context())
	if err != nil {
		return fmt.Errorf("checking for a newer release: %w", err)
	}
	out := cmd.OutOrStdout()
	if newer {
		fmt.Fprintf(out, "Update available: %s -> %s\n", buildVersion, rel.Version)
		if rel.HTMLURL != "" {
			fmt.Fprintf(out, "    %s\n", rel.HTMLURL)
		}
		return nil
	}
	fmt.Fprintf(out, "%s %s is the latest release\n", branding.CLIName(), buildVersion)
	return nil
}
