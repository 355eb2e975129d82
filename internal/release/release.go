package release

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/frenzzy/hyperapp-create/internal/branding"
	"github.com/frenzzy/hyperapp-create/internal/version"
)

// DefaultAPIBase is the GitHub REST endpoint.
const DefaultAPIBase = "https://api.github.com"

// Release is the subset of a GitHub release that the version check uses.
type Release struct {
	Version   string    `json:"tag_name"`
	Published time.Time `json:"published_at"`
	HTMLURL   string    `json:"html_url"`
}

// Checker queries the release feed of the tool's repository.
type Checker struct {
	currentVersion string
	httpClient     *http.Client
	apiBase        string
}

// Option configures a Checker.
type Option func(*Checker)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(ch *Checker) {
		ch.httpClient = c
	}
}

// WithAPIBase points the checker at another GitHub API host.
func WithAPIBase(base string) Option {
	return func(ch *Checker) {
		ch.apiBase = strings.TrimRight(base, "/")
	}
}

// New creates a Checker for the given running version.
func New(currentVersion string, opts ...Option) *Checker {
	ch := &Checker{
		currentVersion: currentVersion,
		httpClient:     http.DefaultClient,
		apiBase:        DefaultAPIBase,
	}
	for _, opt := range opts {
		opt(ch)
	}
	return ch
}

// Latest fetches the most recent non-draft, non-prerelease release.
func (ch *Checker) Latest(ctx context.Context) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", ch.apiBase, branding.GitHubRepo())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", branding.CLIName()+"/"+strings.TrimPrefix(ch.currentVersion, "v"))

	// Optional token for higher rate limits.
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		req.Header.Set("Authorization", "token "+token)
	}

	resp, err := ch.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching release: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("no release published for %s", branding.GitHubRepo())
	case http.StatusForbidden:
		return nil, fmt.Errorf("GitHub API rate limit exceeded. Set GITHUB_TOKEN for higher limits")
	default:
		return nil, fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var rel Release
	if err := json.Unmarshal(body, &rel); err != nil {
		return nil, fmt.Errorf("parsing release JSON: %w", err)
	}
	if rel.Version == "" {
		return nil, fmt.Errorf("release JSON has no tag_name")
	}
	return &rel, nil
}

// Check fetches the latest release and reports whether it is newer than the
// running version. A development build is never considered current.
func (ch *Checker) Check(ctx context.Context) (*Release, bool, error) {
	rel, err := ch.Latest(ctx)
	if err != nil {
		return nil, false, err
	}
	latest, err := version.Parse(rel.Version)
	if err != nil {
		return nil, false, fmt.Errorf("parsing latest version %q: %w", rel.Version, err)
	}
	if ch.currentVersion == "dev" {
		return rel, true, nil
	}
	current, err := version.Parse(ch.currentVersion)
	if err != nil {
		return nil, false, fmt.Errorf("parsing current version %q: %w", ch.currentVersion, err)
	}
	return rel, current.LessThan(latest), nil
}
