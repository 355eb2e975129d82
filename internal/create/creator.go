package create

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/frenzzy/hyperapp-create/internal/archive"
	"github.com/frenzzy/hyperapp-create/internal/console"
	"github.com/frenzzy/hyperapp-create/internal/fetch"
	"github.com/frenzzy/hyperapp-create/internal/pkgmanager"
	"github.com/frenzzy/hyperapp-create/internal/validate"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// TempArchiveName is the file the template is downloaded to inside the
// destination before it replaces the cached archive.
const TempArchiveName = "template.zip"

var printer = message.NewPrinter(language.English)

// Options configures one run.
type Options struct {
	// Dest is the project directory as given by the user.
	Dest     string
	Template fetch.TemplateRef
	// Version is reported in the user agent.
	Version string
	// Interactive enables colors and in-place progress updates.
	Interactive bool
	// SkipInstall leaves dependency installation to the user.
	SkipInstall bool
	// WorkDir decides whether the closing instructions start with a cd.
	// Defaults to the process working directory.
	WorkDir string
}

// Creator runs the scaffolding steps in order: validate the destination,
// prepare it, fetch the template, extract it, detect the package manager,
// install dependencies, and print the closing instructions.
type Creator struct {
	fetcher *fetch.Fetcher
	runner  pkgmanager.Runner
	stdout  io.Writer
	stderr  io.Writer
	logger  *log.Logger
}

// Option configures a Creator.
type Option func(*Creator)

// WithRunner sets the runner used to probe and invoke package managers.
func WithRunner(r pkgmanager.Runner) Option {
	return func(c *Creator) {
		c.runner = r
	}
}

// WithOutput redirects the user-facing output.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(c *Creator) {
		c.stdout = stdout
		c.stderr = stderr
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Creator) {
		c.logger = l
	}
}

// New returns a Creator that obtains templates through fetcher.
func New(fetcher *fetch.Fetcher, opts ...Option) *Creator {
	c := &Creator{
		fetcher: fetcher,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.runner == nil {
		c.runner = &pkgmanager.ExecRunner{Stdout: c.stdout, Stderr: c.stderr}
	}
	return c
}

// Run scaffolds a project into opts.Dest. A destination that fails
// validation is reported on stderr and its code is returned with a nil
// error; nothing is created in that case. Any later failure is returned as
// an error and the code is meaningless.
func (c *Creator) Run(ctx context.Context, opts Options) (validate.Code, error) {
	con := console.New(c.stdout, c.stderr, opts.Interactive)

	dest, err := validate.Destination(opts.Dest)
	if err != nil {
		return validate.CodeOK, fmt.Errorf("checking destination: %w", err)
	}
	if !dest.OK() {
		printRemediation(con, dest)
		return dest.Code, nil
	}

	if !dest.Exists {
		if err := os.MkdirAll(dest.AppPath, 0755); err != nil {
			return validate.CodeOK, fmt.Errorf("creating %s: %w", dest.AppPath, err)
		}
	}
	con.Printf("Creating a new app in %s.\n", con.Green(quote(dest.AppPath)))

	// Detection runs before the download so the tool can be named in the
	// user agent.
	pm := pkgmanager.Detect(ctx, c.runner)
	if pm != nil {
		c.logger.Debug("detected package manager", "tool", pm.String())
	} else {
		c.logger.Debug("no package manager found")
	}

	fetched, err := c.fetch(ctx, con, opts, dest, pm)
	if err != nil {
		return validate.CodeOK, err
	}

	if err := c.extract(con, opts, dest, fetched); err != nil {
		return validate.CodeOK, err
	}

	project, err := c.install(ctx, con, opts, dest, pm, fetched.Offline)
	if err != nil {
		return validate.CodeOK, err
	}

	workDir := opts.WorkDir
	if workDir == "" {
		workDir, _ = os.Getwd()
	}
	printReport(con, reportData{
		dest:    dest,
		rawDest: opts.Dest,
		workDir: workDir,
		pm:      pm,
		project: project,
	})
	return validate.CodeOK, nil
}

func (c *Creator) fetch(ctx context.Context, con *console.Console, opts Options, dest *validate.Result, pm *pkgmanager.Info) (*fetch.Result, error) {
	con.Printf("\nDownloading project template from %s\n", opts.Template.PublicURL())
	con.UpdateLine("Connecting...")

	res, err := c.fetcher.Fetch(ctx, fetch.Request{
		Template:  opts.Template,
		TempPath:  filepath.Join(dest.AppPath, TempArchiveName),
		UserAgent: UserAgent(opts.Version, pm),
		Progress: func(downloaded, total int64) {
			con.UpdateLine(progressLine(downloaded, total))
		},
	})
	if err != nil {
		con.FinishLine(con.Red("Download failed! Please try again or download manually.") + "\n\n")
		return nil, fmt.Errorf("downloading template: %w", err)
	}

	if res.Offline {
		con.FinishLine("\n" + con.Yellow("Detected a problem with network connectivity.") +
			"\n" + con.Yellow("Falling back to the local cache.") + "\n\n")
	}
	c.logger.Debug("template archive ready",
		"archive", res.ArchivePath,
		"entry", res.EntryName,
		"cacheHit", res.CacheHit,
		"offline", res.Offline,
		"downloaded", res.BytesDownloaded,
	)
	return res, nil
}

func (c *Creator) extract(con *console.Console, opts Options, dest *validate.Result, fetched *fetch.Result) error {
	con.UpdateLine("Extracting...")

	report, err := archive.Extract(fetched.ArchivePath, fetched.EntryName, dest.AppPath, func(done, total int) {
		con.UpdateLine(printer.Sprintf("Extracting... %d / %d", done, total))
	})
	if err != nil {
		con.FinishLine(con.Red("Unzipping failed! Please try again or download manually.") + "\n\n")
		if purgeErr := c.fetcher.Purge(opts.Template); purgeErr != nil {
			c.logger.Warn("could not purge cached template", "err", purgeErr)
		}
		return fmt.Errorf("unpacking template: %w", err)
	}

	con.FinishLine(printer.Sprintf("Created %d files with total size of %s.\n",
		report.FileCount, console.FormatSize(report.TotalBytes)))
	return nil
}

// install returns the generated project's manifest, or nil when no package
// manager was found or the template has no readable package.json.
func (c *Creator) install(ctx context.Context, con *console.Console, opts Options, dest *validate.Result, pm *pkgmanager.Info, offline bool) (*pkgmanager.Project, error) {
	if pm == nil {
		return nil, nil
	}

	project, err := pkgmanager.ReadProject(dest.AppPath)
	if err != nil {
		c.logger.Debug("skipping install", "err", err)
		return nil, nil
	}

	deps := project.DependencyNames()
	if len(deps) == 0 {
		return project, nil
	}
	if opts.SkipInstall {
		c.logger.Debug("install skipped by request", "dependencies", len(deps))
		return project, nil
	}

	colored := make([]string, len(deps))
	for i, name := range deps {
		colored[i] = con.Cyan(name)
	}
	con.Printf("\nInstalling packages. This might take a couple of minutes.\nInstalling %s...\n\n", joinList(colored))

	if err := pkgmanager.Install(ctx, c.runner, pm, dest.AppPath, offline); err != nil {
		return nil, err
	}
	return project, nil
}

func progressLine(downloaded, total int64) string {
	if total > 0 {
		percent := (downloaded*100 + total/2) / total
		return fmt.Sprintf("Progress: %d%% (%s / %s)",
			percent, console.FormatSize(downloaded), console.FormatSize(total))
	}
	return "Downloaded: " + console.FormatSize(downloaded)
}
