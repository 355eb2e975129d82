package pkgmanager

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/frenzzy/hyperapp-create/internal/version"
)

func mustInfo(t *testing.T, name, raw string) *Info {
	t.Helper()
	v, err := version.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	return &Info{Name: name, Version: v}
}

func TestInstallArgs(t *testing.T) {
	tests := []struct {
		name    string
		info    *Info
		offline bool
		want    []string
	}{
		{"online yarn", mustInfo(t, "yarn", "1.22.0"), false, []string{"install", "--production=false"}},
		{"offline yarn", mustInfo(t, "yarn", "1.22.0"), true, []string{"install", "--production=false", "--offline"}},
		{"offline npm", mustInfo(t, "npm", "10.0.0"), true, []string{"install", "--production=false", "--offline"}},
		{"offline old npm", mustInfo(t, "npm", "3.10.10"), true, []string{"install", "--production=false"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InstallArgs(tt.info, tt.offline); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("InstallArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInstall(t *testing.T) {
	runner := &fakeRunner{}
	dir := t.TempDir()

	if err := Install(context.Background(), runner, mustInfo(t, "yarn", "1.22.0"), dir, false); err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	if len(runner.runs) != 1 || runner.runs[0] != "yarn install --production=false" {
		t.Errorf("runs = %v", runner.runs)
	}
	if runner.dirs[0] != dir {
		t.Errorf("dir = %q, want %q", runner.dirs[0], dir)
	}
}

func TestInstall_NonZeroExit(t *testing.T) {
	runner := &fakeRunner{exitCode: 1}

	err := Install(context.Background(), runner, mustInfo(t, "npm", "10.0.0"), t.TempDir(), true)
	var installErr *InstallError
	if !errors.As(err, &installErr) {
		t.Fatalf("expected *InstallError, got %v", err)
	}
	if installErr.Command != "npm install --production=false --offline" {
		t.Errorf("Command = %q", installErr.Command)
	}
	if installErr.ExitCode != 1 {
		t.Errorf("ExitCode = %d", installErr.ExitCode)
	}
}

func TestInstall_StartFailure(t *testing.T) {
	runner := &fakeRunner{exitCode: -1, runErr: errors.New("exec: not found")}

	err := Install(context.Background(), runner, mustInfo(t, "yarn", "1.0.0"), t.TempDir(), false)
	if err == nil {
		t.Fatal("expected error")
	}
	var installErr *InstallError
	if errors.As(err, &installErr) {
		t.Error("a start failure is not an exit-code failure")
	}
}

func TestReadProject(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, ProjectFile), []byte(`{
  "name": "app",
  "scripts": {"start": "vite", "build": "vite build"},
  "dependencies": {"hyperapp": "^2.0.0", "shared": "1.0.0"},
  "devDependencies": {"vite": "^5.0.0", "shared": "1.0.0"}
}`), 0644)

	p, err := ReadProject(dir)
	if err != nil {
		t.Fatalf("ReadProject failed: %v", err)
	}
	if got, want := p.DependencyNames(), []string{"hyperapp", "shared", "vite"}; !reflect.DeepEqual(got, want) {
		t.Errorf("DependencyNames() = %v, want %v", got, want)
	}
	if !p.HasScript("start") || !p.HasScript("build") || p.HasScript("test") {
		t.Errorf("unexpected scripts: %v", p.Scripts)
	}
}

func TestReadProject_Missing(t *testing.T) {
	if _, err := ReadProject(t.TempDir()); err == nil {
		t.Error("expected error for missing package.json")
	}
}

func TestExecRunner_ExitCode(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}
	r := &ExecRunner{Stdout: &discard{}, Stderr: &discard{}}

	code, err := r.Run(context.Background(), t.TempDir(), "/bin/sh", "-c", "exit 42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != 42 {
		t.Errorf("exit code = %d, want 42", code)
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
