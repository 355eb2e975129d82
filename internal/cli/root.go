package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/frenzzy/hyperapp-create/internal/branding"
	"github.com/frenzzy/hyperapp-create/internal/config"
	"github.com/frenzzy/hyperapp-create/internal/console"
	"github.com/frenzzy/hyperapp-create/internal/create"
	"github.com/frenzzy/hyperapp-create/internal/fetch"
	"github.com/frenzzy/hyperapp-create/internal/validate"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	flagTemplate  string
	flagBaseURL   string
	flagCacheDir  string
	flagNoInstall bool
	flagVerbose   bool
)

// flagKeys maps flag names to the settings they override.
var flagKeys = map[string]string{
	"template":   config.KeyTemplate,
	"base-url":   config.KeyBaseURL,
	"cache-dir":  config.KeyCacheDir,
	"no-install": config.KeyNoInstall,
	"verbose":    config.KeyVerbose,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagTemplate, "template", "", "Template repository as user/repo#ref")
	pf.StringVar(&flagBaseURL, "base-url", "", "Archive host to download templates from")
	pf.StringVar(&flagCacheDir, "cache-dir", "", "Directory holding cached template archives")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Print diagnostic messages")

	rootCmd.Flags().BoolVar(&flagNoInstall, "no-install", false, "Skip installing dependencies")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName() + " <project-directory>",
	Short: branding.Description(),
	Long: branding.DisplayName() + ` creates a new project from a template repository.

The template is downloaded as a zip archive, cached locally, and unpacked
into the project directory. Dependencies are installed with yarn or npm
when either is available.

  ` + branding.CLIName() + ` my-app
  ` + branding.CLIName() + ` my-app --template someone/starter#main
  ` + branding.CLIName() + ` my-app --no-install`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		for name, key := range flagKeys {
			if f := cmd.Flags().Lookup(name); f != nil {
				if err := config.BindFlag(key, f); err != nil {
					return err
				}
			}
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		var dest string
		if len(args) > 0 {
			dest = args[0]
		}

		ref, err := templateRef()
		if err != nil {
			return err
		}

		logger := newLogger(cmd)
		creator := create.New(newFetcher(logger),
			create.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()),
			create.WithLogger(logger),
		)

		code, err := creator.Run(cmd.Context(), create.Options{
			Dest:        dest,
			Template:    ref,
			Version:     buildVersion,
			Interactive: isInteractive(cmd.OutOrStdout()),
			SkipInstall: config.GetBool(config.KeyNoInstall),
		})
		if err != nil {
			return err
		}
		if code != validate.CodeOK {
			return &ExitError{Code: int(code)}
		}
		return nil
	},
}

// Execute runs the root command with build info injected via ldflags. An
// interrupt cancels the running command.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	var exitErr *ExitError
	if err != nil && !errors.As(err, &exitErr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func templateRef() (fetch.TemplateRef, error) {
	_, _, defaultRef := branding.DefaultTemplate()
	ref, err := fetch.ParseTemplateRef(config.Get(config.KeyTemplate), defaultRef)
	if err != nil {
		return fetch.TemplateRef{}, fmt.Errorf("reading template setting: %w", err)
	}
	return ref, nil
}

func newLogger(cmd *cobra.Command) *log.Logger {
	return console.NewLogger(cmd.ErrOrStderr(), branding.CLIName(), config.GetBool(config.KeyVerbose))
}

func newFetcher(logger *log.Logger) *fetch.Fetcher {
	return fetch.New(config.Get(config.KeyBaseURL),
		fetch.WithCacheDir(config.Get(config.KeyCacheDir)),
		fetch.WithLogger(logger),
	)
}

func isInteractive(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && console.IsInteractive(f)
}
