package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAndModDescriptors(t *testing.T) {
	dir := t.TempDir()
	modPath := filepath.Join(dir, "vanilla")
	objectsDir := filepath.Join(modPath, "objects")
	if err := os.MkdirAll(objectsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(objectsDir, "creature_demo.txt"), []byte("creature_demo"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(objectsDir, "notes.md"), []byte("ignore me"), 0o644); err != nil {
		t.Fatal(err)
	}

	manifestPath := filepath.Join(dir, "rawc.toml")
	content := "[[mods]]\nname = \"vanilla\"\nversion = \"r1\"\npath = \"" + modPath + "\"\n"
	if err := os.WriteFile(manifestPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(manifestPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	descs, err := m.ModDescriptors()
	if err != nil {
		t.Fatalf("ModDescriptors: %v", err)
	}
	if len(descs) != 1 {
		t.Fatalf("expected 1 mod, got %d", len(descs))
	}
	if descs[0].Name != "vanilla" || descs[0].Version != "r1" {
		t.Errorf("got %+v", descs[0])
	}
	if len(descs[0].FileNames) != 1 || descs[0].FileNames[0] != "creature_demo.txt" {
		t.Errorf("expected only the .txt file scanned, got %v", descs[0].FileNames)
	}
}

func TestModDescriptorsHonorsExplicitFiles(t *testing.T) {
	dir := t.TempDir()
	m := &Manifest{Mods: []ModEntry{
		{Name: "m", Version: "1", Path: dir, Files: []string{"a.txt", "b.txt"}},
	}}
	descs, err := m.ModDescriptors()
	if err != nil {
		t.Fatalf("ModDescriptors: %v", err)
	}
	if len(descs[0].FileNames) != 2 {
		t.Errorf("expected explicit file list to be honored, got %v", descs[0].FileNames)
	}
}
