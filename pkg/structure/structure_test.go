package structure_test

import (
	"errors"
	"testing"

	"github.com/peelbox/peelbox/pkg/registry"
	"github.com/peelbox/peelbox/pkg/registry/install"
	"github.com/peelbox/peelbox/pkg/structure"
)

type fakeFS map[string][]byte

func (f fakeFS) ReadFile(relPath string) ([]byte, error) {
	content, ok := f[relPath]
	if !ok {
		return nil, errors.New("not found: " + relPath)
	}
	return content, nil
}

// TestResolve_PnpmMonorepo covers spec.md §8 end-to-end scenario 3.
func TestResolve_PnpmMonorepo(t *testing.T) {
	reg := install.New()
	fileTree := []string{
		"pnpm-workspace.yaml",
		"package.json",
		"packages/a/package.json",
		"apps/web/package.json",
	}
	fs := fakeFS{
		"pnpm-workspace.yaml": []byte("packages:\n  - 'packages/*'\n  - 'apps/*'\n"),
		"package.json":        []byte(`{"name":"root"}`),
	}

	ws, err := structure.Resolve(reg, fileTree, fs, nil)
	if err != nil {
		t.Fatal(err)
	}
	if ws.Orchestrator != registry.OrchestratorPnpmWorkspace {
		t.Fatalf("expected pnpm-workspace orchestrator, got %v", ws.Orchestrator)
	}
	if len(ws.Packages) != 2 {
		t.Fatalf("expected 2 packages, got %d: %+v", len(ws.Packages), ws.Packages)
	}
}

func TestResolve_NoOrchestrator_FallsBackToDetections(t *testing.T) {
	reg := install.New()
	detections := []registry.DetectionStack{
		registry.NewDetectionStack(registry.BuildSystemCargo, registry.LangRust, "Cargo.toml", 0, 0.95, false),
	}
	ws, err := structure.Resolve(reg, []string{"Cargo.toml"}, fakeFS{}, detections)
	if err != nil {
		t.Fatal(err)
	}
	if !ws.Orchestrator.IsZero() {
		t.Fatalf("expected no orchestrator, got %v", ws.Orchestrator)
	}
	if len(ws.Packages) != 1 || ws.Packages[0].Path != "." {
		t.Fatalf("unexpected fallback packages: %+v", ws.Packages)
	}
}
