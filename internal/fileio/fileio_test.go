package fileio

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteAtomicCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stackdriver", "json-detect-instance", "jvm.json")

	if err := WriteAtomic(path, []byte(`{"servers": []}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != `{"servers": []}` {
		t.Fatalf("unexpected content %q", data)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm()&0o400 == 0 {
		t.Fatalf("expected owner readable file, got %v", info.Mode().Perm())
	}
}

func TestWriteAtomicReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jvm.json")
	if err := WriteAtomic(path, []byte("first")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteAtomic(path, []byte("second")); err != nil {
		t.Fatalf("second write: %v", err)
	}

	data, _, err := ReadIfExists(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "second" {
		t.Fatalf("unexpected content %q", data)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected no leftover pending files, got %d entries", len(entries))
	}
}

func TestReadIfExistsMissing(t *testing.T) {
	data, ok, err := ReadIfExists(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil || ok || data != nil {
		t.Fatalf("expected missing file to be reported as absent, got %q %v %v", data, ok, err)
	}
}

func TestReadIfExistsDirectory(t *testing.T) {
	if _, _, err := ReadIfExists(t.TempDir()); err == nil {
		t.Fatalf("expected error reading a directory")
	}
}
