package create

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/frenzzy/hyperapp-create/internal/branding"
	"github.com/frenzzy/hyperapp-create/internal/console"
	"github.com/frenzzy/hyperapp-create/internal/pkgmanager"
	"github.com/frenzzy/hyperapp-create/internal/validate"
)

var plainDirPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func quote(s string) string {
	return strconv.Quote(s)
}

func joinList(items []string) string {
	return strings.Join(items, ", ")
}

// printRemediation explains a failed destination check on stderr.
func printRemediation(con *console.Console, r *validate.Result) {
	cli := con.Cyan(branding.CLIName())

	switch r.Code {
	case validate.CodeMissingArgument:
		con.Errorf("Please specify the project directory:\n  %s %s\n\nFor example:\n  %s %s\n",
			cli, con.Green("<project-directory>"), cli, con.Green("my-app"))

	case validate.CodeNamePolicy:
		con.Errorf("Could not create a project called %s because of the following naming restrictions:\n",
			con.Red(quote(r.AppName)))
		for _, issue := range r.Issues {
			con.Errorf("  *  %s\n", con.Red(issue))
		}

	case validate.CodeMissingParent:
		con.Errorf("Directory %s does not exist.\nBut you can create the project in the current directory like this:\n  %s %s\n",
			con.Red(quote(r.BasePath)), cli, con.Green(quote(r.AppName)))

	case validate.CodeConflict:
		con.Errorf("The directory %s contains files that could conflict:\n\n", con.Green(quote(r.AppPath)))
		for _, name := range r.Conflicts {
			con.Errorf("  %s\n", con.Yellow(name))
		}
		con.Errorf("\nEither try using a new directory name, or remove the files listed above.\n")
	}
}

type reportData struct {
	dest *validate.Result
	// rawDest is the destination as typed, used in the cd suggestion.
	rawDest string
	workDir string
	pm      *pkgmanager.Info
	project *pkgmanager.Project
}

// printReport prints the success message and the commands the project
// supports.
func printReport(con *console.Console, d reportData) {
	con.Printf("\nSuccess! Created %s at %s\n", con.Green(quote(d.dest.AppName)), con.Green(quote(d.dest.AppPath)))

	if d.pm != nil && d.project != nil {
		pm := con.Cyan(d.pm.Name)
		hasStart := d.project.HasScript("start")
		hasBuild := d.project.HasScript("build")
		hasTest := d.project.HasScript("test")

		if hasStart || hasBuild || hasTest {
			con.Printf("Inside that directory, you can run several commands:\n\n")
			if hasStart {
				con.Printf("  %s %s\n    Starts the development server.\n\n", pm, con.Cyan("start"))
			}
			if hasBuild {
				con.Printf("  %s %s\n    Optimizes the app for production.\n\n", pm, con.Cyan(buildCommand(d.pm)))
			}
			if hasTest {
				con.Printf("  %s %s\n    Starts the test runner.\n\n", pm, con.Cyan("test"))
			}
		}

		if hasStart {
			con.Printf("We suggest that you begin by typing:\n\n")
			if d.dest.AppPath != d.workDir {
				con.Printf("  %s %s\n", con.Cyan("cd"), cdTarget(d.rawDest))
			}
			con.Printf("  %s %s\n\n", pm, con.Cyan("start"))
		}
	}

	con.Printf("Happy hacking!\n")
}

func buildCommand(pm *pkgmanager.Info) string {
	if pm.Name == pkgmanager.Yarn {
		return "build"
	}
	return "run build"
}

func cdTarget(dest string) string {
	if plainDirPattern.MatchString(dest) {
		return dest
	}
	return quote(dest)
}
