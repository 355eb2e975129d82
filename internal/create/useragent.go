package create

import (
	"runtime"
	"strings"

	"github.com/frenzzy/hyperapp-create/internal/branding"
	"github.com/frenzzy/hyperapp-create/internal/pkgmanager"
)

// UserAgent identifies the tool, the Go runtime, the detected package
// manager when there is one, and the host platform.
func UserAgent(version string, pm *pkgmanager.Info) string {
	if version == "" {
		version = "dev"
	}
	parts := []string{
		branding.CLIName() + "/" + strings.TrimPrefix(version, "v"),
		"go/" + strings.TrimPrefix(runtime.Version(), "go"),
	}
	if pm != nil {
		parts = append(parts, pm.String())
	}
	parts = append(parts, runtime.GOOS, runtime.GOARCH)
	return strings.Join(parts, " ")
}
