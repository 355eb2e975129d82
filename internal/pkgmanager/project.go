package pkgmanager

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ProjectFile is the project descriptor read from a generated project.
const ProjectFile = "package.json"

// Project holds the parts of package.json that shape installation and the
// closing instructions.
type Project struct {
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// ReadProject parses dir/package.json.
func ReadProject(dir string) (*Project, error) {
	path := filepath.Join(dir, ProjectFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &p, nil
}

// DependencyNames returns the sorted union of runtime and development
// dependency names.
func (p *Project) DependencyNames() []string {
	seen := make(map[string]bool, len(p.Dependencies)+len(p.DevDependencies))
	var names []string
	for _, deps := range []map[string]string{p.Dependencies, p.DevDependencies} {
		for name := range deps {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// HasScript reports whether package.json declares the named script.
func (p *Project) HasScript(name string) bool {
	_, ok := p.Scripts[name]
	return ok
}
