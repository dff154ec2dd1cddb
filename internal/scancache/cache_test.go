package scancache

import (
	"os"
	"path/filepath"
	"testing"
)

func TestContentKey_StableAndPositionPreserving(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.acmi")
	if err := os.WriteFile(path, []byte("#1\n-64\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	k1, err := ContentKey(f)
	if err != nil {
		t.Fatalf("ContentKey: %v", err)
	}
	k2, err := ContentKey(f)
	if err != nil {
		t.Fatalf("ContentKey: %v", err)
	}
	if k1 != k2 {
		t.Errorf("ContentKey is not stable across calls: %q != %q", k1, k2)
	}

	pos, err := f.Seek(0, os.SEEK_CUR)
	if err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if pos != 0 {
		t.Errorf("ContentKey should restore the file offset to 0, got %d", pos)
	}
}

func TestContentKey_DiffersForDifferentContent(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.acmi")
	pathB := filepath.Join(dir, "b.acmi")
	os.WriteFile(pathA, []byte("#1\n"), 0o644)
	os.WriteFile(pathB, []byte("#2\n"), 0o644)

	fa, _ := os.Open(pathA)
	defer fa.Close()
	fb, _ := os.Open(pathB)
	defer fb.Close()

	ka, err := ContentKey(fa)
	if err != nil {
		t.Fatalf("ContentKey: %v", err)
	}
	kb, err := ContentKey(fb)
	if err != nil {
		t.Fatalf("ContentKey: %v", err)
	}
	if ka == kb {
		t.Error("different file contents produced the same content key")
	}
}
