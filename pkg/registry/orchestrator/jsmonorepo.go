package orchestrator

import (
	"encoding/json"
	"path"

	"github.com/peelbox/peelbox/pkg/registry"
)

type rootPackageJSON struct {
	Workspaces json.RawMessage `json:"workspaces"`
}

// workspaceGlobs normalizes package.json's "workspaces" field, which
// may be either a bare array or an object with a "packages" key (the
// Yarn Workspaces "nohoist"-capable form).
func workspaceGlobs(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var globs []string
	if err := json.Unmarshal(raw, &globs); err == nil {
		return globs
	}
	var obj struct {
		Packages []string `json:"packages"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Packages
	}
	return nil
}

func packagesFromRootWorkspaces(fileTree []string, fs registry.ReadFS) ([]registry.Package, error) {
	content, err := fs.ReadFile("package.json")
	if err != nil {
		return nil, err
	}
	var root rootPackageJSON
	if err := json.Unmarshal(content, &root); err != nil {
		return nil, err
	}
	globs := workspaceGlobs(root.Workspaces)

	var pkgs []registry.Package
	for _, f := range fileTree {
		if path.Base(f) != "package.json" {
			continue
		}
		dir := path.Dir(f)
		if dir == "." {
			continue
		}
		if matchesAnyGlob(dir, globs) {
			pkgs = append(pkgs, registry.Package{
				Path:     dir,
				Manifest: registry.Manifest{Path: f, Basename: "package.json"},
			})
		}
	}
	return pkgs, nil
}

// Turborepo is the registry.OrchestratorPlugin for Turborepo, which
// layers pipeline orchestration over an existing npm/yarn/pnpm
// workspaces declaration rather than defining its own package-list
// format; turbo.json's presence is what distinguishes it, the package
// list itself still comes from the root package.json's "workspaces"
// field (or PnpmWorkspace, tried first since it has higher priority).
type Turborepo struct{}

func (Turborepo) ID() registry.ID     { return registry.OrchestratorTurborepo }
func (Turborepo) Name() string        { return "turborepo" }
func (Turborepo) Priority() int       { return 1 }
func (Turborepo) CacheDirs() []string { return []string{"node_modules", ".turbo"} }

func (Turborepo) Detect(fileTree []string, fs registry.ReadFS) (*registry.WorkspaceStructure, error) {
	if !contains(fileTree, "turbo.json") {
		return nil, nil
	}
	pkgs, err := packagesFromRootWorkspaces(fileTree, fs)
	if err != nil {
		return nil, err
	}
	return &registry.WorkspaceStructure{Orchestrator: registry.OrchestratorTurborepo, Packages: pkgs}, nil
}

// YarnWorkspace is the registry.OrchestratorPlugin for a bare
// npm/Yarn "workspaces" declaration with no Turborepo or Nx layered on
// top. It is tried after Turborepo and Nx (lower priority) so a repo
// that has both a workspaces field and a turbo.json/nx.json is
// attributed to the more specific tool.
type YarnWorkspace struct{}

func (YarnWorkspace) ID() registry.ID     { return registry.OrchestratorYarnWorkspace }
func (YarnWorkspace) Name() string        { return "yarn-workspace" }
func (YarnWorkspace) Priority() int        { return 3 }
func (YarnWorkspace) CacheDirs() []string { return []string{"node_modules"} }

func (YarnWorkspace) Detect(fileTree []string, fs registry.ReadFS) (*registry.WorkspaceStructure, error) {
	if !contains(fileTree, "package.json") {
		return nil, nil
	}
	content, err := fs.ReadFile("package.json")
	if err != nil {
		return nil, err
	}
	var root rootPackageJSON
	if err := json.Unmarshal(content, &root); err != nil {
		return nil, err
	}
	if len(workspaceGlobs(root.Workspaces)) == 0 {
		return nil, nil
	}
	pkgs, err := packagesFromRootWorkspaces(fileTree, fs)
	if err != nil {
		return nil, err
	}
	return &registry.WorkspaceStructure{Orchestrator: registry.OrchestratorYarnWorkspace, Packages: pkgs}, nil
}

// Nx is the registry.OrchestratorPlugin for Nx monorepos.
type Nx struct{}

func (Nx) ID() registry.ID     { return registry.OrchestratorNx }
func (Nx) Name() string        { return "nx" }
func (Nx) Priority() int       { return 2 }
func (Nx) CacheDirs() []string { return []string{"node_modules", ".nx/cache"} }

func (Nx) Detect(fileTree []string, fs registry.ReadFS) (*registry.WorkspaceStructure, error) {
	if !contains(fileTree, "nx.json") {
		return nil, nil
	}
	pkgs, err := packagesFromRootWorkspaces(fileTree, fs)
	if err != nil {
		return nil, err
	}
	return &registry.WorkspaceStructure{Orchestrator: registry.OrchestratorNx, Packages: pkgs}, nil
}
