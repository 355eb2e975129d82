package fetch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func testPaths(t *testing.T) CachePaths {
	t.Helper()
	f := New("http://unused", WithCacheDir(t.TempDir()))
	return f.CachePaths(TemplateRef{User: "u", Repo: "r", Ref: "main"})
}

func TestLoadCached_Missing(t *testing.T) {
	paths := testPaths(t)

	m, err := LoadCached(paths)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != nil {
		t.Error("expected nil manifest when nothing is cached")
	}
}

func TestLoadCached_ManifestWithoutArchive(t *testing.T) {
	paths := testPaths(t)
	if err := SaveManifest(paths.Manifest, &CacheManifest{EntityTag: `"abc"`, EntryName: "r-main"}); err != nil {
		t.Fatal(err)
	}

	m, err := LoadCached(paths)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != nil {
		t.Error("manifest without archive should not count as a cache pair")
	}
}

func TestSaveAndLoadCached(t *testing.T) {
	paths := testPaths(t)
	os.WriteFile(paths.Archive, []byte("zip"), 0644)

	if err := SaveManifest(paths.Manifest, &CacheManifest{EntityTag: `W/"123"`, EntryName: "r-abc"}); err != nil {
		t.Fatalf("SaveManifest failed: %v", err)
	}

	m, err := LoadCached(paths)
	if err != nil {
		t.Fatalf("LoadCached failed: %v", err)
	}
	if m.EntityTag != `W/"123"` {
		t.Errorf("EntityTag = %q", m.EntityTag)
	}
	if m.EntryName != "r-abc" {
		t.Errorf("EntryName = %q", m.EntryName)
	}
}

func TestLoadCached_Corrupted(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid json", "not valid json{{{"},
		{"missing entry name", `{"entityTag":"abc"}`},
		{"wrong type", `{"entityTag":1,"entryName":"r-main"}`},
		{"entry name with separator", `{"entityTag":"abc","entryName":"../escape"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths := testPaths(t)
			os.WriteFile(paths.Archive, []byte("zip"), 0644)
			os.WriteFile(paths.Manifest, []byte(tt.content), 0644)

			_, err := LoadCached(paths)
			if !errors.Is(err, ErrCacheCorrupted) {
				t.Errorf("expected ErrCacheCorrupted, got %v", err)
			}
		})
	}
}

func TestLoadCached_UnreadableManifest(t *testing.T) {
	paths := testPaths(t)
	os.WriteFile(paths.Archive, []byte("zip"), 0644)
	if err := os.Mkdir(paths.Manifest, 0755); err != nil {
		t.Fatal(err)
	}

	_, err := LoadCached(paths)
	if !errors.Is(err, ErrCacheCorrupted) {
		t.Errorf("expected ErrCacheCorrupted, got %v", err)
	}
}

func TestPurge(t *testing.T) {
	dir := t.TempDir()
	f := New("http://unused", WithCacheDir(dir))
	ref := TemplateRef{User: "u", Repo: "r", Ref: "main"}
	paths := f.CachePaths(ref)
	os.WriteFile(paths.Archive, []byte("zip"), 0644)
	os.WriteFile(paths.Manifest, []byte("{}"), 0644)

	if err := f.Purge(ref); err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	for _, p := range []string{paths.Archive, paths.Manifest} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s should be removed", filepath.Base(p))
		}
	}

	// Purging an empty cache is a no-op.
	if err := f.Purge(ref); err != nil {
		t.Errorf("second Purge failed: %v", err)
	}
}

func TestReplaceFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.zip")
	dst := filepath.Join(dir, "dst.zip")
	os.WriteFile(src, []byte("new"), 0644)
	os.WriteFile(dst, []byte("old"), 0644)

	if err := replaceFile(src, dst); err != nil {
		t.Fatalf("replaceFile failed: %v", err)
	}
	data, _ := os.ReadFile(dst)
	if string(data) != "new" {
		t.Errorf("dst = %q, want %q", data, "new")
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("src should no longer exist")
	}
}
