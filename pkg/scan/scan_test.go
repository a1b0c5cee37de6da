package scan_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/peelbox/peelbox/pkg/registry/install"
	"github.com/peelbox/peelbox/pkg/scan"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScan_SingleRustBinary(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Cargo.toml", "[package]\nname = \"hello\"\nversion = \"0.1.0\"\n")
	writeFile(t, root, "src/main.rs", "fn main() {}\n")
	writeFile(t, root, "target/debug/hello", "binary")

	reg := install.New()
	result, err := scan.Scan(root, reg, scan.Options{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Detections) != 1 {
		t.Fatalf("expected 1 detection, got %d: %+v", len(result.Detections), result.Detections)
	}
	d := result.Detections[0]
	if d.ManifestPath != "Cargo.toml" {
		t.Fatalf("unexpected manifest path: %s", d.ManifestPath)
	}
	if d.Depth != 0 {
		t.Fatalf("expected depth 0 at repo root, got %d", d.Depth)
	}
	for _, f := range result.FileTree {
		if f == "target/debug/hello" {
			t.Fatal("expected target/ to be excluded by the registry's AllExcludedDirs")
		}
	}
}

func TestScan_GitignoreHonored(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "package.json", `{"name":"svc"}`)
	writeFile(t, root, ".gitignore", "ignored.txt\n")
	writeFile(t, root, "ignored.txt", "should not appear")

	reg := install.New()
	result, err := scan.Scan(root, reg, scan.Options{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range result.FileTree {
		if f == "ignored.txt" {
			t.Fatal("expected ignored.txt to be excluded via .gitignore")
		}
	}
}

func TestScan_MissingRepoIsFatal(t *testing.T) {
	reg := install.New()
	if _, err := scan.Scan(filepath.Join(t.TempDir(), "does-not-exist"), reg, scan.Options{}, nil); err == nil {
		t.Fatal("expected an error for a missing repo path")
	}
}

func TestScan_FileCapTruncates(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 5; i++ {
		writeFile(t, root, filepath.Join("files", string(rune('a'+i))+".txt"), "x")
	}
	reg := install.New()
	result, err := scan.Scan(root, reg, scan.Options{FileCap: 2}, func(string) {})
	if err != nil {
		t.Fatal(err)
	}
	if !result.Truncated {
		t.Fatal("expected Truncated to be true")
	}
	if len(result.FileTree) > 2 {
		t.Fatalf("expected at most 2 files recorded, got %d", len(result.FileTree))
	}
}
