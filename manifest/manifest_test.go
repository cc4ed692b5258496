package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "cora.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[project]
name = "test-app"
version = "0.1.0"

[memory]
initial = 4096
max = 1048576

[source]
entry = "app.cora"

[image]
output = "test.image"
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if m.Project.Name != "test-app" {
		t.Errorf("project name = %q, want test-app", m.Project.Name)
	}
	if m.Project.Version != "0.1.0" {
		t.Errorf("project version = %q, want 0.1.0", m.Project.Version)
	}
	if m.Memory.Initial != 4096 {
		t.Errorf("memory initial = %d, want 4096", m.Memory.Initial)
	}
	if m.Memory.Max != 1048576 {
		t.Errorf("memory max = %d, want 1048576", m.Memory.Max)
	}
	if m.Source.Entry != "app.cora" {
		t.Errorf("source entry = %q, want app.cora", m.Source.Entry)
	}
	if m.Image.Output != "test.image" {
		t.Errorf("image output = %q, want test.image", m.Image.Output)
	}
}

func TestLoadManifestDefaults(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[project]
name = "minimal"
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if m.Source.Entry != "main.cora" {
		t.Errorf("default entry = %q, want main.cora", m.Source.Entry)
	}
	if m.Image.Output != "cora.image" {
		t.Errorf("default image output = %q, want cora.image", m.Image.Output)
	}
	if m.Memory.Max != 0 {
		t.Errorf("default memory max = %d, want 0 (unlimited)", m.Memory.Max)
	}
}

func TestLoadManifestRejectsBadMemory(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[memory]
initial = 2048
max = 1024
`)
	if _, err := Load(dir); err == nil {
		t.Error("initial > max accepted")
	}

	writeManifest(t, dir, `
[memory]
max = -1
`)
	if _, err := Load(dir); err == nil {
		t.Error("negative max accepted")
	}
}

func TestFindAndLoad(t *testing.T) {
	dir := t.TempDir()
	subDir := filepath.Join(dir, "a", "b", "c")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatal(err)
	}

	writeManifest(t, dir, `[project]
name = "found-project"
`)

	// Should find manifest when starting from a deep subdirectory
	m, err := FindAndLoad(subDir)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if m == nil {
		t.Fatal("FindAndLoad returned nil")
	}
	if m.Project.Name != "found-project" {
		t.Errorf("project name = %q, want found-project", m.Project.Name)
	}
}

func TestFindAndLoadNotFound(t *testing.T) {
	dir := t.TempDir()
	m, err := FindAndLoad(dir)
	if err != nil {
		t.Fatalf("FindAndLoad error: %v", err)
	}
	if m != nil {
		t.Error("expected nil manifest when no cora.toml exists")
	}
}

func TestManifestPaths(t *testing.T) {
	m := &Manifest{
		Dir:    "/app",
		Source: Source{Entry: "main.cora"},
		Image:  ImageConfig{Output: "out.image"},
	}

	if got := m.EntryPath(); got != "/app/main.cora" {
		t.Errorf("EntryPath = %q", got)
	}
	if got := m.ImagePath(); got != "/app/out.image" {
		t.Errorf("ImagePath = %q", got)
	}
}
