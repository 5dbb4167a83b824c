package configs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveAndLoadTOML(t *testing.T) {
	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "test.toml")

	original := Default()
	original.Source.Dir = "notes"
	original.KDF.N = 1024

	if err := SaveTOML(testFile, original); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	loaded := &Config{}
	if err := LoadTOML(testFile, loaded); err != nil {
		t.Fatalf("LoadTOML failed: %v", err)
	}

	if loaded.Source.Dir != "notes" {
		t.Errorf("Expected source dir %q, got %q", "notes", loaded.Source.Dir)
	}
	if loaded.KDF.N != 1024 {
		t.Errorf("Expected N 1024, got %d", loaded.KDF.N)
	}
	if loaded.Output.Dir != DefaultOutputDir {
		t.Errorf("Expected output dir %q, got %q", DefaultOutputDir, loaded.Output.Dir)
	}
}

func TestLoadTOMLNonExistent(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "nonexistent.toml")

	if err := LoadTOML(testFile, &Config{}); err == nil {
		t.Fatal("Expected error for non-existent file, got nil")
	}
}

func TestLoadTOMLUnknownKeys(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.toml")
	if err := os.WriteFile(testFile, []byte("[kdf]\nn = 1024\ncost = 9\n"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	err := LoadTOML(testFile, &Config{})
	if err == nil || !strings.Contains(err.Error(), "kdf.cost") {
		t.Fatalf("Expected an unknown key error naming kdf.cost, got %v", err)
	}
}

func TestSaveTOMLCreatesDirectory(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "subdir", "test.toml")

	if err := SaveTOML(testFile, Default()); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	if _, err := os.Stat(testFile); os.IsNotExist(err) {
		t.Fatal("File was not created")
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFile)

	cfg, err := WriteDefault(path, "")
	if err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}
	if cfg.Path != path {
		t.Errorf("Expected path %q, got %q", path, cfg.Path)
	}

	reloaded, err := Load(path, true)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if reloaded.Source.Timezone != cfg.Source.Timezone || reloaded.KDF != cfg.KDF {
		t.Errorf("Reloaded config differs: %+v vs %+v", reloaded, cfg)
	}

	if _, err := WriteDefault(path, ""); !errors.Is(err, os.ErrExist) {
		t.Errorf("Expected os.ErrExist, got %v", err)
	}
}

func TestWriteDefaultSourceDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFile)

	if _, err := WriteDefault(path, "notes"); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}
	reloaded, err := Load(path, true)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if reloaded.Source.Dir != "notes" {
		t.Errorf("Expected source dir notes, got %q", reloaded.Source.Dir)
	}
	if reloaded.Output.Dir != DefaultOutputDir {
		t.Errorf("Expected default output dir, got %q", reloaded.Output.Dir)
	}
}
