package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCanonicalizePathAbsolute(t *testing.T) {
	tmpDir := t.TempDir()

	got := CanonicalizePath(tmpDir)
	if !filepath.IsAbs(got) {
		t.Errorf("CanonicalizePath(%q) = %q, want absolute path", tmpDir, got)
	}
}

func TestCanonicalizePathNonexistent(t *testing.T) {
	tmpDir := t.TempDir()
	missing := filepath.Join(tmpDir, "does-not-exist")

	got := CanonicalizePath(missing)
	if !filepath.IsAbs(got) {
		t.Errorf("CanonicalizePath(%q) = %q, want absolute path", missing, got)
	}
}

func TestCanonicalizePathResolvesSymlinks(t *testing.T) {
	tmpDir := t.TempDir()
	real := filepath.Join(tmpDir, "real")
	if err := os.Mkdir(real, 0750); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	link := filepath.Join(tmpDir, "link")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	if got, want := CanonicalizePath(link), CanonicalizePath(real); got != want {
		t.Errorf("CanonicalizePath(link) = %q, want %q", got, want)
	}
}

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if !FileExists(file) {
		t.Errorf("FileExists(%q) = false, want true", file)
	}
	if FileExists(tmpDir) {
		t.Errorf("FileExists(%q) = true for directory, want false", tmpDir)
	}
	if FileExists(filepath.Join(tmpDir, "missing")) {
		t.Error("FileExists(missing) = true, want false")
	}
}
