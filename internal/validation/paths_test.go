package validation

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPathHandlerDBPath(t *testing.T) {
	ph := NewPermissivePathHandler()
	tmp := t.TempDir()

	want := filepath.Join(tmp, "nested", "slyde.db")
	got, err := ph.DBPath(want)
	if err != nil {
		t.Fatalf("DBPath() error = %v", err)
	}
	if got != want {
		t.Errorf("DBPath() = %q, want %q", got, want)
	}
	if info, err := os.Stat(filepath.Dir(want)); err != nil || !info.IsDir() {
		t.Error("DBPath() should create the parent directory")
	}
}

func TestPathHandlerDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	ph := NewSecurePathHandler()

	db, err := ph.DBPath("")
	if err != nil {
		t.Fatalf("DBPath(\"\") error = %v", err)
	}
	if want := filepath.Join(home, ".slyde", "slyde.db"); db != want {
		t.Errorf("DBPath(\"\") = %q, want %q", db, want)
	}

	idx, err := ph.IndexPath("")
	if err != nil {
		t.Fatalf("IndexPath(\"\") error = %v", err)
	}
	if want := filepath.Join(home, ".slyde", "index.bleve"); idx != want {
		t.Errorf("IndexPath(\"\") = %q, want %q", idx, want)
	}
	if _, err := os.Stat(idx); !os.IsNotExist(err) {
		t.Error("IndexPath() must leave index directory creation to bleve")
	}
}

func TestPathHandlerRejectsTraversal(t *testing.T) {
	ph := NewPermissivePathHandler()

	if _, err := ph.DBPath("/tmp/../etc/slyde.db"); err == nil {
		t.Error("DBPath() should reject traversal")
	}
	if _, err := ph.IndexPath("/tmp/../etc/index"); err == nil {
		t.Error("IndexPath() should reject traversal")
	}
}

func TestEnsureDirectory(t *testing.T) {
	ph := NewPermissivePathHandler()
	dir := filepath.Join(t.TempDir(), "x", "y")

	got, err := ph.EnsureDirectory(dir)
	if err != nil {
		t.Fatalf("EnsureDirectory() error = %v", err)
	}
	if info, err := os.Stat(got); err != nil || !info.IsDir() {
		t.Error("EnsureDirectory() should create the directory")
	}
}
