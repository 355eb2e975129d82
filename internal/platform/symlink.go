package platform

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
)

// Symlink creates link pointing at target. When Windows refuses the link,
// the target file is copied to link instead. A relative target is resolved
// against the directory containing link, as the OS would.
func Symlink(target, link string) error {
	err := os.Symlink(target, link)
	if err == nil || runtime.GOOS != "windows" {
		return err
	}
	if copyErr := copyTarget(target, link); copyErr != nil {
		return fmt.Errorf("symlink %s: %w (copy fallback failed: %v)", link, err, copyErr)
	}
	return nil
}

// copyTarget copies the file target refers to into link, keeping its mode.
func copyTarget(target, link string) error {
	src := target
	if !filepath.IsAbs(src) {
		src = filepath.Join(filepath.Dir(link), target)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", src)
	}

	out, err := os.OpenFile(link, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
