// Package config loads the CLI's rawc.toml mod manifest (§4.8) and turns it
// into the ordered []reader.ModDescriptor the core's documented input shape
// expects. The core package never parses a manifest itself.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/dfmod/rawc/internal/reader"
)

// Manifest is the decoded shape of rawc.toml.
type Manifest struct {
	Mods []ModEntry `toml:"mods"`
}

// ModEntry is one [[mods]] table. Files, when omitted, is populated by
// scanning "<path>/objects/*.txt".
type ModEntry struct {
	Name    string   `toml:"name"`
	Version string   `toml:"version"`
	Path    string   `toml:"path"`
	Files   []string `toml:"files"`
}

// Load parses path as a TOML manifest.
func Load(path string) (*Manifest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	var m Manifest
	if err := toml.Unmarshal(content, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return &m, nil
}

// ModDescriptors resolves every entry's file list (scanning <path>/objects
// if the entry didn't list one explicitly) and returns them in manifest
// order, the compile order §4.8 documents.
func (m *Manifest) ModDescriptors() ([]reader.ModDescriptor, error) {
	out := make([]reader.ModDescriptor, 0, len(m.Mods))
	for _, entry := range m.Mods {
		names := entry.Files
		if len(names) == 0 {
			var err error
			names, err = scanObjectFiles(entry.Path)
			if err != nil {
				return nil, fmt.Errorf("scanning mod %s: %w", entry.Name, err)
			}
		}
		out = append(out, reader.ModDescriptor{
			Name:      entry.Name,
			Version:   entry.Version,
			Path:      entry.Path,
			FileNames: names,
		})
	}
	return out, nil
}

func scanObjectFiles(modPath string) ([]string, error) {
	objectsDir := filepath.Join(modPath, "objects")
	entries, err := os.ReadDir(objectsDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".txt" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
