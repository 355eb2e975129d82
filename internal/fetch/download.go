package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
)

var dispositionPattern = regexp.MustCompile(`filename="?([^";]+)\.zip`)

// Request describes one template fetch.
type Request struct {
	Template TemplateRef
	// TempPath is where the body is streamed before it replaces the cached
	// archive.
	TempPath  string
	UserAgent string
	Progress  ProgressFunc
}

// Result locates the archive to extract.
type Result struct {
	ArchivePath string
	EntryName   string
	// Offline is set when the network was unreachable and the cached archive
	// was used instead.
	Offline bool
	// CacheHit is set when the server confirmed the cached archive is current
	// and no body was transferred.
	CacheHit        bool
	BytesDownloaded int64
	TotalBytes      int64
}

// Fetch returns a local archive for req.Template. It issues a single GET and
// reuses the cache when the entity tag matches, streams a fresh archive into
// the cache otherwise, and falls back to the cache when the host is
// unreachable.
func (f *Fetcher) Fetch(ctx context.Context, req Request) (*Result, error) {
	if err := os.MkdirAll(f.cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	paths := f.CachePaths(req.Template)

	unlock, err := lockCache(ctx, paths.Lock)
	if err != nil {
		return nil, err
	}
	defer unlock()

	result, err := f.download(ctx, req, paths)
	if err == nil {
		return result, nil
	}
	if !IsConnectivityError(err) {
		return nil, err
	}

	cached, cacheErr := LoadCached(paths)
	if cacheErr != nil || cached == nil {
		f.logger.Debug("no usable cache for offline fallback", "template", req.Template, "err", cacheErr)
		return nil, err
	}
	f.logger.Debug("network unreachable, using cached archive", "template", req.Template, "err", err)
	return &Result{
		ArchivePath: paths.Archive,
		EntryName:   cached.EntryName,
		Offline:     true,
		TotalBytes:  -1,
	}, nil
}

func (f *Fetcher) download(ctx context.Context, req Request, paths CachePaths) (*Result, error) {
	url := f.ArchiveURL(req.Template)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating download request: %w", err)
	}
	if req.UserAgent != "" {
		httpReq.Header.Set("User-Agent", req.UserAgent)
	}

	f.logger.Debug("requesting template archive", "url", url)
	resp, err := f.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", url, err)
	}
	// Closing an unread body drops the connection, which is how a cache hit
	// aborts the transfer.
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status, URL: url}
	}

	entityTag := resp.Header.Get("ETag")
	if entityTag != "" {
		cached, err := LoadCached(paths)
		switch {
		case errors.Is(err, ErrCacheCorrupted):
			f.logger.Warn("Local cache is corrupted, downloading again", "err", err)
		case err != nil:
			return nil, err
		case cached != nil && cached.EntityTag == entityTag:
			f.logger.Debug("template unchanged, using cached archive", "etag", entityTag)
			return &Result{
				ArchivePath: paths.Archive,
				EntryName:   cached.EntryName,
				CacheHit:    true,
				TotalBytes:  resp.ContentLength,
			}, nil
		}
	}

	total := resp.ContentLength
	downloaded, err := streamToFile(resp.Body, req.TempPath, total, req.Progress)
	if err != nil {
		return nil, err
	}

	// The old manifest describes the archive about to be replaced. It goes
	// first so a failure below never pairs it with the new archive.
	if err := os.Remove(paths.Manifest); err != nil && !os.IsNotExist(err) {
		_ = os.Remove(req.TempPath)
		return nil, fmt.Errorf("removing stale cache manifest: %w", err)
	}
	if err := replaceFile(req.TempPath, paths.Archive); err != nil {
		_ = os.Remove(req.TempPath)
		return nil, fmt.Errorf("moving archive into cache: %w", err)
	}

	entryName := req.Template.DefaultEntryName()
	// Without an entity tag the archive can never be revalidated, so it is
	// left without a manifest.
	if entityTag != "" {
		if name := entryNameFromDisposition(resp.Header.Get("Content-Disposition")); name != "" {
			entryName = name
		}
		if err := SaveManifest(paths.Manifest, &CacheManifest{EntityTag: entityTag, EntryName: entryName}); err != nil {
			return nil, err
		}
	}

	f.logger.Debug("downloaded template archive", "bytes", downloaded, "entry", entryName)
	return &Result{
		ArchivePath:     paths.Archive,
		EntryName:       entryName,
		BytesDownloaded: downloaded,
		TotalBytes:      total,
	}, nil
}

// streamToFile copies body into path, reporting progress after every chunk.
// The file is removed when the copy fails.
func streamToFile(body io.Reader, path string, total int64, progress ProgressFunc) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, fmt.Errorf("creating download directory: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating download file: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			out.Close()
			_ = os.Remove(path)
		}
	}()

	var downloaded int64
	buf := make([]byte, 32*1024)
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				return downloaded, fmt.Errorf("writing download: %w", writeErr)
			}
			downloaded += int64(n)
			if progress != nil {
				progress(downloaded, total)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return downloaded, fmt.Errorf("reading download stream: %w", readErr)
		}
	}

	if err := out.Close(); err != nil {
		return downloaded, fmt.Errorf("closing download file: %w", err)
	}
	committed = true
	return downloaded, nil
}

func entryNameFromDisposition(header string) string {
	if header == "" {
		return ""
	}
	m := dispositionPattern.FindStringSubmatch(header)
	if m == nil {
		return ""
	}
	return m[1]
}
