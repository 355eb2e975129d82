package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("HYPERAPP_CREATE_HOME", t.TempDir())

	Load()

	if got := Get(KeyTemplate); got != "frenzzy/hyperapp-starter#template" {
		t.Errorf("template = %q", got)
	}
	if got := Get(KeyBaseURL); got != "https://codeload.github.com" {
		t.Errorf("base_url = %q", got)
	}
	if GetBool(KeyNoInstall) {
		t.Error("no_install should default to false")
	}
}

func TestEnvOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("HYPERAPP_CREATE_HOME", t.TempDir())
	t.Setenv("HYPERAPP_CREATE_TEMPLATE", "someone/starter#main")
	t.Setenv("HYPERAPP_CREATE_VERBOSE", "true")

	Load()

	if got := Get(KeyTemplate); got != "someone/starter#main" {
		t.Errorf("template = %q", got)
	}
	if !GetBool(KeyVerbose) {
		t.Error("verbose should come from the environment")
	}
}

func TestSetPersists(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	home := t.TempDir()
	t.Setenv("HYPERAPP_CREATE_HOME", home)

	Load()
	if err := Set(KeyCacheDir, "/var/cache/templates"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if FilePath() != filepath.Join(home, "config.yaml") {
		t.Errorf("FilePath() = %q", FilePath())
	}

	viper.Reset()
	Load()
	if got := Get(KeyCacheDir); got != "/var/cache/templates" {
		t.Errorf("cache_dir = %q after reload", got)
	}
}

func TestSetUnknownKey(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("HYPERAPP_CREATE_HOME", t.TempDir())

	if err := Set("colour", "red"); err == nil {
		t.Error("expected error for unknown key")
	}
}
