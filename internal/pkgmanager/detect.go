package pkgmanager

import (
	"context"

	"github.com/Masterminds/semver/v3"
	"github.com/frenzzy/hyperapp-create/internal/version"
)

// Supported package manager names, in detection order.
const (
	Yarn = "yarn"
	NPM  = "npm"
)

var candidates = []string{Yarn, NPM}

// offlineConstraints lists the versions of each tool that accept --offline.
// Yarn 2+ dropped the flag; npm added it in 5.0.
var offlineConstraints = map[string]string{
	Yarn: "< 2.0.0-0",
	NPM:  ">= 5.0.0-0",
}

// Info describes a detected package manager.
type Info struct {
	Name    string
	Version *semver.Version
}

// String renders name/version, the form used in the user agent.
func (i *Info) String() string {
	return i.Name + "/" + i.Version.String()
}

// SupportsOffline reports whether the tool's install command accepts --offline.
func (i *Info) SupportsOffline() bool {
	raw, ok := offlineConstraints[i.Name]
	if !ok {
		return false
	}
	c, err := semver.NewConstraint(raw)
	if err != nil {
		return false
	}
	return c.Check(i.Version)
}

// Detect probes yarn and then npm with --version and returns the first one
// that runs and prints a parseable version. It returns nil when neither is
// available.
func Detect(ctx context.Context, runner Runner) *Info {
	for _, name := range candidates {
		out, err := runner.Output(ctx, name, "--version")
		if err != nil {
			continue
		}
		v, err := version.Parse(string(out))
		if err != nil {
			continue
		}
		return &Info{Name: name, Version: v}
	}
	return nil
}
