// Package importer converts master-authored YAML content packs into the
// JSON dataset the companion server publishes and serves.
package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source loads a content pack as a generic document keyed by collection
// name.
type Source interface {
	// Load reads the pack rooted at dir.
	Load(dir string) (map[string]any, error)
}

// DirSource reads every YAML file in a directory and merges their
// top-level mappings into one document. A pack may be a single file or
// split by collection (locations.yaml, items.yaml, ...).
type DirSource struct{}

// NewDirSource creates a DirSource.
func NewDirSource() *DirSource {
	return &DirSource{}
}

// Load reads and merges the pack's YAML files.
//
// Precondition: dir must exist and contain at least one .yaml or .yml file.
// Postcondition: a collection appearing in two files is an error, never a
// silent overwrite.
func (s *DirSource) Load(dir string) (map[string]any, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading pack directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no YAML files in pack directory %s", dir)
	}
	sort.Strings(files)

	doc := map[string]any{}
	for _, name := range files {
		path := filepath.Join(dir, name)
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		var part map[string]any
		if err := yaml.Unmarshal(raw, &part); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		for key, value := range part {
			if _, exists := doc[key]; exists {
				return nil, fmt.Errorf("collection %q defined in more than one file (last: %s)", key, name)
			}
			doc[key] = value
		}
	}
	return doc, nil
}
