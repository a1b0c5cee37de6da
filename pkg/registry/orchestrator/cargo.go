package orchestrator

import (
	"path"

	"github.com/pelletier/go-toml"

	"github.com/peelbox/peelbox/pkg/registry"
)

// CargoWorkspace is the registry.OrchestratorPlugin for Cargo's
// [workspace] table, resolving "members" globs against the scanned
// file tree the same way PnpmWorkspace resolves "packages".
type CargoWorkspace struct{}

func (CargoWorkspace) ID() registry.ID     { return registry.OrchestratorCargoWorkspace }
func (CargoWorkspace) Name() string        { return "cargo-workspace" }
func (CargoWorkspace) Priority() int        { return 0 }
func (CargoWorkspace) CacheDirs() []string { return []string{"target"} }

func (CargoWorkspace) Detect(fileTree []string, fs registry.ReadFS) (*registry.WorkspaceStructure, error) {
	const marker = "Cargo.toml"
	if !contains(fileTree, marker) {
		return nil, nil
	}
	content, err := fs.ReadFile(marker)
	if err != nil {
		return nil, err
	}
	tree, err := toml.LoadBytes(content)
	if err != nil {
		return nil, err
	}
	wsTree, ok := tree.Get("workspace").(*toml.Tree)
	if !ok {
		return nil, nil // a plain Cargo.toml with no [workspace] table is not a monorepo root
	}
	rawMembers, _ := wsTree.Get("members").([]interface{})
	var members []string
	for _, m := range rawMembers {
		if s, ok := m.(string); ok {
			members = append(members, s)
		}
	}
	rawExclude, _ := wsTree.Get("exclude").([]interface{})
	var exclude []string
	for _, m := range rawExclude {
		if s, ok := m.(string); ok {
			exclude = append(exclude, s)
		}
	}

	ws := &registry.WorkspaceStructure{Orchestrator: registry.OrchestratorCargoWorkspace}
	for _, f := range fileTree {
		if path.Base(f) != "Cargo.toml" || f == marker {
			continue
		}
		dir := path.Dir(f)
		if matchesAnyGlob(dir, exclude) {
			continue
		}
		if matchesAnyGlob(dir, members) {
			ws.Packages = append(ws.Packages, registry.Package{
				Path:     dir,
				Manifest: registry.Manifest{Path: f, Basename: "Cargo.toml"},
			})
		}
	}
	return ws, nil
}
