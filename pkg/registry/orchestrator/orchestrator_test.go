package orchestrator_test

import (
	"errors"
	"testing"

	"github.com/peelbox/peelbox/pkg/registry"
	"github.com/peelbox/peelbox/pkg/registry/orchestrator"
)

type fakeFS map[string][]byte

func (f fakeFS) ReadFile(relPath string) ([]byte, error) {
	content, ok := f[relPath]
	if !ok {
		return nil, errors.New("not found: " + relPath)
	}
	return content, nil
}

func TestPnpmWorkspace_Detect(t *testing.T) {
	fs := fakeFS{
		"pnpm-workspace.yaml": []byte("packages:\n  - 'apps/*'\n  - 'packages/*'\n"),
		"package.json":        []byte(`{"name":"root"}`),
	}
	fileTree := []string{
		"pnpm-workspace.yaml",
		"package.json",
		"apps/web/package.json",
		"packages/ui/package.json",
		"tools/scripts/package.json", // not under a declared glob
	}

	ws, err := orchestrator.PnpmWorkspace{}.Detect(fileTree, fs)
	if err != nil {
		t.Fatal(err)
	}
	if ws == nil {
		t.Fatal("expected a WorkspaceStructure, got nil")
	}
	if ws.Orchestrator != registry.OrchestratorPnpmWorkspace {
		t.Fatalf("unexpected orchestrator id: %v", ws.Orchestrator)
	}
	if len(ws.Packages) != 2 {
		t.Fatalf("expected 2 member packages, got %d: %+v", len(ws.Packages), ws.Packages)
	}
}

func TestPnpmWorkspace_Detect_NoMarker(t *testing.T) {
	ws, err := orchestrator.PnpmWorkspace{}.Detect([]string{"package.json"}, fakeFS{})
	if err != nil {
		t.Fatal(err)
	}
	if ws != nil {
		t.Fatalf("expected nil WorkspaceStructure without pnpm-workspace.yaml, got %+v", ws)
	}
}

func TestCargoWorkspace_Detect(t *testing.T) {
	fs := fakeFS{
		"Cargo.toml": []byte(`
[workspace]
members = ["services/*"]
exclude = ["services/legacy"]
`),
	}
	fileTree := []string{
		"Cargo.toml",
		"services/api/Cargo.toml",
		"services/worker/Cargo.toml",
		"services/legacy/Cargo.toml",
	}

	ws, err := orchestrator.CargoWorkspace{}.Detect(fileTree, fs)
	if err != nil {
		t.Fatal(err)
	}
	if ws == nil {
		t.Fatal("expected a WorkspaceStructure, got nil")
	}
	if len(ws.Packages) != 2 {
		t.Fatalf("expected 2 member packages (legacy excluded), got %d: %+v", len(ws.Packages), ws.Packages)
	}
}

func TestCargoWorkspace_Detect_NoWorkspaceTable(t *testing.T) {
	fs := fakeFS{"Cargo.toml": []byte(`[package]
name = "hello"
version = "0.1.0"
`)}
	ws, err := orchestrator.CargoWorkspace{}.Detect([]string{"Cargo.toml"}, fs)
	if err != nil {
		t.Fatal(err)
	}
	if ws != nil {
		t.Fatalf("expected nil WorkspaceStructure for a non-workspace Cargo.toml, got %+v", ws)
	}
}

func TestTurborepo_Detect(t *testing.T) {
	fs := fakeFS{
		"package.json": []byte(`{"name":"root","workspaces":["apps/*","packages/*"]}`),
	}
	fileTree := []string{
		"turbo.json",
		"package.json",
		"apps/web/package.json",
		"packages/ui/package.json",
	}

	ws, err := orchestrator.Turborepo{}.Detect(fileTree, fs)
	if err != nil {
		t.Fatal(err)
	}
	if ws == nil || ws.Orchestrator != registry.OrchestratorTurborepo {
		t.Fatalf("expected a Turborepo WorkspaceStructure, got %+v", ws)
	}
	if len(ws.Packages) != 2 {
		t.Fatalf("expected 2 member packages, got %d: %+v", len(ws.Packages), ws.Packages)
	}
}

func TestYarnWorkspace_Detect_NoTurboOrNx(t *testing.T) {
	fs := fakeFS{
		"package.json": []byte(`{"name":"root","workspaces":{"packages":["packages/*"]}}`),
	}
	fileTree := []string{"package.json", "packages/core/package.json"}

	ws, err := orchestrator.YarnWorkspace{}.Detect(fileTree, fs)
	if err != nil {
		t.Fatal(err)
	}
	if ws == nil || ws.Orchestrator != registry.OrchestratorYarnWorkspace {
		t.Fatalf("expected a YarnWorkspace WorkspaceStructure, got %+v", ws)
	}
	if len(ws.Packages) != 1 {
		t.Fatalf("expected 1 member package, got %d: %+v", len(ws.Packages), ws.Packages)
	}
}

func TestYarnWorkspace_Detect_NoWorkspacesField(t *testing.T) {
	fs := fakeFS{"package.json": []byte(`{"name":"standalone"}`)}
	ws, err := orchestrator.YarnWorkspace{}.Detect([]string{"package.json"}, fs)
	if err != nil {
		t.Fatal(err)
	}
	if ws != nil {
		t.Fatalf("expected nil WorkspaceStructure for a non-workspace package.json, got %+v", ws)
	}
}
