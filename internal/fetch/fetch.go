package fetch

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// TemplateRef identifies a repository archive at a given ref.
type TemplateRef struct {
	User string
	Repo string
	Ref  string
}

// ParseTemplateRef parses "user/repo" or "user/repo#ref". A missing ref is
// replaced with defaultRef.
func ParseTemplateRef(s, defaultRef string) (TemplateRef, error) {
	spec, ref, hasRef := strings.Cut(strings.TrimSpace(s), "#")
	user, repo, ok := strings.Cut(spec, "/")
	if !ok || user == "" || repo == "" || strings.Contains(repo, "/") {
		return TemplateRef{}, fmt.Errorf("invalid template %q: expected user/repo[#ref]", s)
	}
	if !hasRef || ref == "" {
		ref = defaultRef
	}
	if ref == "" {
		return TemplateRef{}, fmt.Errorf("invalid template %q: missing ref", s)
	}
	return TemplateRef{User: user, Repo: repo, Ref: ref}, nil
}

// String renders the ref as user/repo@ref.
func (r TemplateRef) String() string {
	return r.User + "/" + r.Repo + "@" + r.Ref
}

// Key returns the cache key shared by the archive, manifest and lock files.
func (r TemplateRef) Key() string {
	return fmt.Sprintf("github-%s-%s-%s", r.User, r.Repo, r.Ref)
}

// PublicURL returns the browsable location of the template.
func (r TemplateRef) PublicURL() string {
	return fmt.Sprintf("https://github.com/%s/%s/tree/%s", r.User, r.Repo, r.Ref)
}

// DefaultEntryName is the archive root folder assumed when the server does
// not name it.
func (r TemplateRef) DefaultEntryName() string {
	return r.Repo + "-" + r.Ref
}

// ProgressFunc receives the number of body bytes written so far and the
// expected total, or -1 when the server did not send a length.
type ProgressFunc func(downloaded, total int64)

// Fetcher downloads template archives through a local cache.
type Fetcher struct {
	httpClient *http.Client
	baseURL    string
	cacheDir   string
	logger     *log.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.httpClient = c
	}
}

// WithCacheDir sets the directory holding cached archives and manifests.
func WithCacheDir(dir string) Option {
	return func(f *Fetcher) {
		if dir != "" {
			f.cacheDir = dir
		}
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *log.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// New creates a Fetcher that downloads archives from baseURL.
func New(baseURL string, opts ...Option) *Fetcher {
	f := &Fetcher{
		httpClient: http.DefaultClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		cacheDir:   os.TempDir(),
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CacheDir returns the directory holding the cache pairs.
func (f *Fetcher) CacheDir() string {
	return f.cacheDir
}

// ArchiveURL returns the download location of ref's zip archive.
func (f *Fetcher) ArchiveURL(ref TemplateRef) string {
	return fmt.Sprintf("%s/%s/%s/zip/%s", f.baseURL, ref.User, ref.Repo, ref.Ref)
}
