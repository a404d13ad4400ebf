package storage

import (
	"io"
	"strings"
	"testing"
)

func TestDiskStoreRoundTrip(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore() error = %v, want nil", err)
	}

	path, size, err := store.Save("report.pdf", strings.NewReader("file contents"))
	if err != nil {
		t.Fatalf("Save() error = %v, want nil", err)
	}
	if size != int64(len("file contents")) {
		t.Errorf("Save() size = %d, want %d", size, len("file contents"))
	}
	if !store.Exists(path) {
		t.Fatalf("Exists(%q) = false after Save, want true", path)
	}

	f, err := store.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v, want nil", err)
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		t.Fatalf("ReadAll() error = %v, want nil", err)
	}
	if string(data) != "file contents" {
		t.Errorf("Open() contents = %q, want %q", data, "file contents")
	}

	if err := store.Delete(path); err != nil {
		t.Fatalf("Delete() error = %v, want nil", err)
	}
	if store.Exists(path) {
		t.Errorf("Exists(%q) = true after Delete, want false", path)
	}
	// Deleting an already missing blob is a no-op.
	if err := store.Delete(path); err != nil {
		t.Errorf("Delete() on missing file = %v, want nil", err)
	}
}

func TestDiskStoreUniqueNames(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore() error = %v, want nil", err)
	}

	first, _, err := store.Save("same-name.txt", strings.NewReader("one"))
	if err != nil {
		t.Fatalf("Save() error = %v, want nil", err)
	}
	second, _, err := store.Save("same-name.txt", strings.NewReader("two"))
	if err != nil {
		t.Fatalf("Save() error = %v, want nil", err)
	}
	if first == second {
		t.Errorf("Save() reused path %q for two uploads, want distinct paths", first)
	}
}
