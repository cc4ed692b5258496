// Package manifest handles cora.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest represents a cora.toml project configuration.
type Manifest struct {
	Project Project     `toml:"project"`
	Memory  Memory      `toml:"memory"`
	Source  Source      `toml:"source"`
	Image   ImageConfig `toml:"image"`

	// Dir is the directory containing the cora.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Memory configures the arena the interpreter runs in.
type Memory struct {
	// Initial arena size in bytes; 0 lets the store pick.
	Initial int `toml:"initial"`
	// Max arena size in bytes; 0 means unlimited.
	Max int `toml:"max"`
}

// Source configures source file locations.
type Source struct {
	Entry string `toml:"entry"`
}

// ImageConfig configures image output.
type ImageConfig struct {
	Output string `toml:"output"`
}

// Load parses a cora.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "cora.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults
	if m.Source.Entry == "" {
		m.Source.Entry = "main.cora"
	}
	if m.Image.Output == "" {
		m.Image.Output = "cora.image"
	}
	if m.Memory.Max < 0 || m.Memory.Initial < 0 {
		return nil, fmt.Errorf("%s: memory sizes must not be negative", path)
	}
	if m.Memory.Max > 0 && m.Memory.Initial > m.Memory.Max {
		return nil, fmt.Errorf("%s: memory.initial exceeds memory.max", path)
	}

	return &m, nil
}

// FindAndLoad walks up from startDir to find a cora.toml file, then
// loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, "cora.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// EntryPath returns the absolute path of the entry source file.
func (m *Manifest) EntryPath() string {
	return filepath.Join(m.Dir, m.Source.Entry)
}

// ImagePath returns the absolute path of the configured image output.
func (m *Manifest) ImagePath() string {
	return filepath.Join(m.Dir, m.Image.Output)
}
