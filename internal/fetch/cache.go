package fetch

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema/cache-manifest.schema.json
var manifestSchemaBytes []byte

var (
	manifestSchema     *jsonschema.Schema
	manifestSchemaOnce sync.Once
	manifestSchemaErr  error
)

// ErrCacheCorrupted reports a manifest that cannot be trusted. Callers treat
// it as a missing cache.
var ErrCacheCorrupted = errors.New("local cache is corrupted")

// CacheManifest records which revision the cached archive holds and the name
// of its root folder.
type CacheManifest struct {
	EntityTag string `json:"entityTag"`
	EntryName string `json:"entryName"`
}

// CachePaths locates the files that make up one template's cache pair.
type CachePaths struct {
	Archive  string
	Manifest string
	Lock     string
}

// CachePaths returns the cache file locations for ref.
func (f *Fetcher) CachePaths(ref TemplateRef) CachePaths {
	base := filepath.Join(f.cacheDir, ref.Key())
	return CachePaths{
		Archive:  base + ".zip",
		Manifest: base + ".json",
		Lock:     base + ".lock",
	}
}

// Purge removes the cached archive and manifest of ref. Missing files are
// not an error.
func (f *Fetcher) Purge(ref TemplateRef) error {
	paths := f.CachePaths(ref)
	for _, p := range []string{paths.Archive, paths.Manifest} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing cached file %s: %w", p, err)
		}
	}
	return nil
}

// LoadCached returns the manifest of a usable cache pair. It returns nil, nil
// when the archive or manifest does not exist. Any other failure to stat the
// archive or read the manifest, and a manifest that fails schema validation,
// wrap ErrCacheCorrupted.
func LoadCached(paths CachePaths) (*CacheManifest, error) {
	if _, err := os.Stat(paths.Archive); os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("%w: checking cached archive: %v", ErrCacheCorrupted, err)
	}

	data, err := os.ReadFile(paths.Manifest)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading cache manifest: %v", ErrCacheCorrupted, err)
	}
	return parseManifest(data)
}

func parseManifest(data []byte) (*CacheManifest, error) {
	schema, err := getManifestSchema()
	if err != nil {
		return nil, err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheCorrupted, err)
	}
	if err := schema.Validate(inst); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheCorrupted, err)
	}

	var m CacheManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheCorrupted, err)
	}
	return &m, nil
}

// SaveManifest writes m to path, replacing any previous manifest.
func SaveManifest(path string, m *CacheManifest) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling cache manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing cache manifest: %w", err)
	}
	return nil
}

func getManifestSchema() (*jsonschema.Schema, error) {
	manifestSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(manifestSchemaBytes))
		if err != nil {
			manifestSchemaErr = fmt.Errorf("unmarshaling cache manifest schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("cache-manifest.schema.json", doc); err != nil {
			manifestSchemaErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		manifestSchema, manifestSchemaErr = c.Compile("cache-manifest.schema.json")
		if manifestSchemaErr != nil {
			manifestSchemaErr = fmt.Errorf("compiling cache manifest schema: %w", manifestSchemaErr)
		}
	})
	return manifestSchema, manifestSchemaErr
}

// replaceFile moves src over dst. Rename fails across filesystems (the
// download lands in the project directory, the cache in the temp dir), so it
// falls back to copying.
func replaceFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := dst + ".partial"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return err
	}
	in.Close()
	return os.Remove(src)
}
