package pkgmanager

import (
	"context"
	"fmt"
	"strings"
)

// InstallError reports a package manager that exited with a non-zero code.
type InstallError struct {
	Command  string
	ExitCode int
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("child process %q failed with code %d", e.Command, e.ExitCode)
}

// InstallArgs returns the install arguments for info. Development
// dependencies are always included; --offline is added when offline is set
// and the tool supports it.
func InstallArgs(info *Info, offline bool) []string {
	args := []string{"install", "--production=false"}
	if offline && info.SupportsOffline() {
		args = append(args, "--offline")
	}
	return args
}

// Install runs the package manager's install command in dir.
func Install(ctx context.Context, runner Runner, info *Info, dir string, offline bool) error {
	args := InstallArgs(info, offline)
	code, err := runner.Run(ctx, dir, info.Name, args...)
	if err != nil {
		return fmt.Errorf("installing packages: %w", err)
	}
	if code != 0 {
		return &InstallError{
			Command:  info.Name + " " + strings.Join(args, " "),
			ExitCode: code,
		}
	}
	return nil
}
