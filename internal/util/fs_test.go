package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureWritableDir_CreatesNested(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	if err := EnsureWritableDir(dir); err != nil {
		t.Fatalf("EnsureWritableDir: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !info.IsDir() {
		t.Error("expected a directory")
	}

	// The probe file must not linger.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty directory, found %d entries", len(entries))
	}
}

func TestEnsureWritableDir_ExistingOK(t *testing.T) {
	dir := t.TempDir()
	if err := EnsureWritableDir(dir); err != nil {
		t.Errorf("EnsureWritableDir on existing dir: %v", err)
	}
}

func TestIsExecutableFile(t *testing.T) {
	dir := t.TempDir()

	script := filepath.Join(dir, "engine")
	if err := os.WriteFile(script, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatalf("writing script: %v", err)
	}
	plain := filepath.Join(dir, "data")
	if err := os.WriteFile(plain, []byte("x"), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	if !IsExecutableFile(script) {
		t.Error("expected executable script to pass")
	}
	if IsExecutableFile(plain) {
		t.Error("expected plain file to fail")
	}
	if IsExecutableFile(dir) {
		t.Error("expected directory to fail")
	}
	if IsExecutableFile(filepath.Join(dir, "missing")) {
		t.Error("expected missing path to fail")
	}
}
