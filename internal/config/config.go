package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/frenzzy/hyperapp-create/internal/branding"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys.
const (
	KeyTemplate  = "template"
	KeyBaseURL   = "base_url"
	KeyCacheDir  = "cache_dir"
	KeyNoInstall = "no_install"
	KeyVerbose   = "verbose"
)

// Keys lists every recognized setting.
func Keys() []string {
	keys := []string{KeyTemplate, KeyBaseURL, KeyCacheDir, KeyNoInstall, KeyVerbose}
	sort.Strings(keys)
	return keys
}

// IsKnownKey reports whether key is a recognized setting.
func IsKnownKey(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}

// Dir returns the path to the config directory (~/.hyperapp-create/).
func Dir() string {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment, with
// defaults from the embedded branding.
func Load() {
	user, repo, ref := branding.DefaultTemplate()
	viper.SetDefault(KeyTemplate, user+"/"+repo+"#"+ref)
	viper.SetDefault(KeyBaseURL, branding.ArchiveBaseURL())
	viper.SetDefault(KeyCacheDir, os.TempDir())
	viper.SetDefault(KeyNoInstall, false)
	viper.SetDefault(KeyVerbose, false)

	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// BindFlag lets an explicitly set command-line flag override key.
func BindFlag(key string, flag *pflag.Flag) error {
	if err := viper.BindPFlag(key, flag); err != nil {
		return fmt.Errorf("binding flag %s: %w", flag.Name, err)
	}
	return nil
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// GetBool returns a boolean config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("unknown config key %q", key)
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
