// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into the
// binary with //go:embed. They name the tool, its home directory and env
// prefix, and the default starter template that new projects are created from.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName        string `yaml:"cli_name"`
	DisplayName    string `yaml:"display_name"`
	Description    string `yaml:"description"`
	HomeDir        string `yaml:"home_dir"`
	EnvPrefix      string `yaml:"env_prefix"`
	GitHubRepo     string `yaml:"github_repo"`
	ArchiveBaseURL string `yaml:"archive_base_url"`
	TemplateUser   string `yaml:"template_user"`
	TemplateRepo   string `yaml:"template_repo"`
	TemplateRef    string `yaml:"template_ref"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:        "hyperapp-create",
			DisplayName:    "Hyperapp Create",
			Description:    "Create Hyperapp projects from a starter template",
			HomeDir:        ".hyperapp-create",
			EnvPrefix:      "HYPERAPP_CREATE",
			GitHubRepo:     "frenzzy/hyperapp-create",
			ArchiveBaseURL: "https://codeload.github.com",
			TemplateUser:   "frenzzy",
			TemplateRepo:   "hyperapp-starter",
			TemplateRef:    "template",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "hyperapp-create").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".hyperapp-create").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "HYPERAPP_CREATE").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GitHubRepo returns the "owner/repo" string of the tool itself.
func GitHubRepo() string { load(); return defaults.GitHubRepo }

// ArchiveBaseURL returns the host that serves repository zip archives.
func ArchiveBaseURL() string { load(); return defaults.ArchiveBaseURL }

// DefaultTemplate returns the user, repository and ref of the starter template.
func DefaultTemplate() (user, repo, ref string) {
	load()
	return defaults.TemplateUser, defaults.TemplateRepo, defaults.TemplateRef
}

// EnvVar returns a fully qualified env var name, e.g., EnvVar("verbose") → "HYPERAPP_CREATE_VERBOSE".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
