package pkg

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)

	content := `[package]
name = "myproj"
version = "1.2.0"

[parser]
language = "zh"
max_file_size = 1024
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.Package.Name != "myproj" {
		t.Errorf("package name mismatch: got %q", config.Package.Name)
	}
	if config.Package.Version != "1.2.0" {
		t.Errorf("package version mismatch: got %q", config.Package.Version)
	}
	if config.Parser.Language != "zh" {
		t.Errorf("language mismatch: got %q", config.Parser.Language)
	}
	if config.Parser.MaxFileSize != 1024 {
		t.Errorf("max file size mismatch: got %d", config.Parser.MaxFileSize)
	}
}

func TestLoadConfigFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)

	if err := os.WriteFile(path, []byte("[package]\nname = \"x\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Parser.Language != "en" {
		t.Errorf("default language mismatch: got %q", config.Parser.Language)
	}
	if config.Parser.MaxFileSize != DefaultMaxFileSize {
		t.Errorf("default max file size mismatch: got %d", config.Parser.MaxFileSize)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)

	config := DefaultConfig()
	config.Package.Name = "roundtrip"
	if err := config.Save(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Package.Name != "roundtrip" {
		t.Errorf("package name mismatch after round trip: got %q", loaded.Package.Name)
	}
}

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	config := DefaultConfig()
	config.Package.Name = "above"
	if err := config.Save(filepath.Join(root, ConfigFileName)); err != nil {
		t.Fatal(err)
	}

	found, err := FindConfig(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Package.Name != "above" {
		t.Errorf("expected config from ancestor directory, got %q", found.Package.Name)
	}
}

func TestFindConfigDefaultsWhenMissing(t *testing.T) {
	config, err := FindConfig(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Package.Name != "unnamed" {
		t.Errorf("expected default config, got %q", config.Package.Name)
	}
}
