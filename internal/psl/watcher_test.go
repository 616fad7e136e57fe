package psl

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReloadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "public_suffix_list.dat")

	if err := os.WriteFile(path, []byte("com\nco.uk\n"), 0o644); err != nil {
		t.Fatalf("write list: %v", err)
	}

	holder := NewHolder()
	if err := reloadFile(path, holder); err != nil {
		t.Fatalf("reloadFile error: %v", err)
	}
	if holder.Source() != path {
		t.Fatalf("Source() = %q, want %q", holder.Source(), path)
	}

	suffix, err := holder.PublicSuffix("bbc.co.uk")
	if err != nil {
		t.Fatalf("PublicSuffix error: %v", err)
	}
	if suffix != "co.uk" {
		t.Fatalf("PublicSuffix = %q, want %q", suffix, "co.uk")
	}
}

func TestReloadFile_KeepsOldListOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "public_suffix_list.dat")

	holder := NewHolder()

	// Missing file: holder must stay on the embedded snapshot.
	if err := reloadFile(path, holder); err == nil {
		t.Fatal("reloadFile succeeded on missing file")
	}
	if holder.Source() != "embedded" {
		t.Fatalf("Source() = %q, want %q", holder.Source(), "embedded")
	}

	// Empty file parses to zero rules and must also be rejected.
	if err := os.WriteFile(path, []byte("// empty\n"), 0o644); err != nil {
		t.Fatalf("write list: %v", err)
	}
	if err := reloadFile(path, holder); err == nil {
		t.Fatal("reloadFile accepted an empty list")
	}
	if holder.Source() != "embedded" {
		t.Fatalf("Source() = %q, want %q", holder.Source(), "embedded")
	}
}
