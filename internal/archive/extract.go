package archive

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/frenzzy/hyperapp-create/internal/platform"
	"github.com/klauspost/compress/zip"
)

// Report summarizes the files under the archive's root folder.
type Report struct {
	FileCount  int
	TotalBytes int64
}

// ProgressFunc receives the number of files written so far and the number
// of files to write.
type ProgressFunc func(done, total int)

// Error wraps any failure to read or extract an archive. Callers treat the
// archive as unusable.
type Error struct {
	Archive string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("extracting %s: %v", e.Archive, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Scan counts the non-directory entries under entryName.
func Scan(archivePath, entryName string) (Report, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return Report{}, &Error{Archive: archivePath, Err: err}
	}
	defer r.Close()
	return scanFiles(r.File, entryName), nil
}

// Extract writes every entry under entryName into dest, stripping the
// entryName prefix. Directories are created as needed. The returned report is
// computed before anything is written.
func Extract(archivePath, entryName, dest string, progress ProgressFunc) (Report, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return Report{}, &Error{Archive: archivePath, Err: err}
	}
	defer r.Close()

	report := scanFiles(r.File, entryName)
	prefix := entryName + "/"

	// Links are created last so that a copy fallback finds its target.
	var links []pendingLink
	done := 0
	for _, f := range r.File {
		rel, ok := strings.CutPrefix(f.Name, prefix)
		if !ok || rel == "" {
			continue
		}
		target, err := targetPath(dest, rel)
		if err != nil {
			return report, &Error{Archive: archivePath, Err: err}
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return report, &Error{Archive: archivePath, Err: err}
			}
			continue
		}

		if f.Mode()&os.ModeSymlink != 0 {
			link, err := readLink(f, target, dest)
			if err != nil {
				return report, &Error{Archive: archivePath, Err: fmt.Errorf("%s: %w", rel, err)}
			}
			links = append(links, link)
		} else if err := extractFile(f, target); err != nil {
			return report, &Error{Archive: archivePath, Err: fmt.Errorf("%s: %w", rel, err)}
		}
		done++
		if progress != nil {
			progress(done, report.FileCount)
		}
	}

	for _, l := range links {
		if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
			return report, &Error{Archive: archivePath, Err: err}
		}
		_ = os.Remove(l.path)
		if err := platform.Symlink(l.target, l.path); err != nil {
			return report, &Error{Archive: archivePath, Err: err}
		}
	}

	return report, nil
}

type pendingLink struct {
	path   string
	target string
}

func scanFiles(files []*zip.File, entryName string) Report {
	prefix := entryName + "/"
	var report Report
	for _, f := range files {
		if f.FileInfo().IsDir() || !strings.HasPrefix(f.Name, prefix) {
			continue
		}
		report.FileCount++
		report.TotalBytes += int64(f.UncompressedSize64)
	}
	return report
}

// targetPath resolves rel inside dest and rejects entries that would land
// outside it.
func targetPath(dest, rel string) (string, error) {
	local := filepath.FromSlash(path.Clean(rel))
	if !filepath.IsLocal(local) {
		return "", fmt.Errorf("entry %q escapes the destination", rel)
	}
	return filepath.Join(dest, local), nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	perm := f.Mode().Perm()
	if perm == 0 {
		perm = 0644
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// readLink reads a symlink entry and checks that its target stays inside
// dest.
func readLink(f *zip.File, target, dest string) (pendingLink, error) {
	rc, err := f.Open()
	if err != nil {
		return pendingLink{}, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return pendingLink{}, err
	}
	link := string(data)
	rel, err := filepath.Rel(dest, filepath.Join(filepath.Dir(target), filepath.FromSlash(link)))
	if err != nil || filepath.IsAbs(link) || !filepath.IsLocal(rel) {
		return pendingLink{}, fmt.Errorf("symlink target %q escapes the destination", link)
	}
	return pendingLink{path: target, target: filepath.FromSlash(link)}, nil
}
