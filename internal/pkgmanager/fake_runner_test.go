package pkgmanager

import (
	"context"
	"errors"
	"strings"
)

// fakeRunner answers --version probes from a table and records Run calls.
type fakeRunner struct {
	versions map[string]string
	exitCode int
	runErr   error
	runs     []string
	dirs     []string
}

func (f *fakeRunner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	v, ok := f.versions[name]
	if !ok {
		return nil, errors.New("executable file not found in $PATH")
	}
	return []byte(v), nil
}

func (f *fakeRunner) Run(_ context.Context, dir, name string, args ...string) (int, error) {
	f.runs = append(f.runs, name+" "+strings.Join(args, " "))
	f.dirs = append(f.dirs, dir)
	return f.exitCode, f.runErr
}
