// Package testutil holds small testing helpers shared across package
// tests: syntactic sugar over *testing.T for creating and writing a
// throwaway repo tree.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Using creates root as a new directory and returns a deferrable that
// removes it.
//
//	defer testutil.Using(t, t.TempDir())()
func Using(t *testing.T, root string) func() {
	t.Helper()
	if err := os.MkdirAll(root, 0o700); err != nil {
		t.Fatal(err)
	}
	return func() {
		if err := os.RemoveAll(root); err != nil {
			t.Fatal(err)
		}
	}
}

// WriteFiles writes a small test fixture tree under root: keys are
// paths relative to root, values are file content. Parent directories
// are created as needed.
func WriteFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
}
