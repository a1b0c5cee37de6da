package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSyncAttachable_ExcludesMaskedPaths(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "secret.env"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	a := FileSyncAttachable(dir, []string{"secret.env"})
	if a == nil {
		t.Fatal("expected a non-nil Attachable")
	}
}
