// Package orchestrator holds the concrete registry.OrchestratorPlugin
// implementations. Each file owns one orchestrator and only imports
// pkg/registry.
package orchestrator

import (
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/peelbox/peelbox/pkg/registry"
)

// PnpmWorkspace is the registry.OrchestratorPlugin for pnpm's
// workspace protocol, matching spec.md's end-to-end scenario 3.
type PnpmWorkspace struct{}

func (PnpmWorkspace) ID() registry.ID   { return registry.OrchestratorPnpmWorkspace }
func (PnpmWorkspace) Name() string      { return "pnpm-workspace" }
func (PnpmWorkspace) Priority() int     { return 0 }
func (PnpmWorkspace) CacheDirs() []string { return []string{"node_modules", ".pnpm-store"} }

type pnpmWorkspaceYAML struct {
	Packages []string `yaml:"packages"`
}

// Detect reads pnpm-workspace.yaml's "packages" glob list and resolves
// each entry against the scanned file tree by matching any
// package.json whose directory satisfies one of the glob patterns.
func (PnpmWorkspace) Detect(fileTree []string, fs registry.ReadFS) (*registry.WorkspaceStructure, error) {
	const marker = "pnpm-workspace.yaml"
	if !contains(fileTree, marker) {
		return nil, nil
	}
	content, err := fs.ReadFile(marker)
	if err != nil {
		return nil, err
	}
	var doc pnpmWorkspaceYAML
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, err
	}

	ws := &registry.WorkspaceStructure{Orchestrator: registry.OrchestratorPnpmWorkspace}
	for _, f := range fileTree {
		if path.Base(f) != "package.json" {
			continue
		}
		dir := path.Dir(f)
		if dir == "." {
			continue // the workspace root's own package.json is not a member package
		}
		if matchesAnyGlob(dir, doc.Packages) {
			ws.Packages = append(ws.Packages, registry.Package{
				Path:     dir,
				Manifest: registry.Manifest{Path: f, Basename: "package.json"},
			})
		}
	}
	return ws, nil
}

func contains(list []string, target string) bool {
	for _, v := range list {
		if v == target {
			return true
		}
	}
	return false
}

// matchesAnyGlob tests dir against pnpm-workspace.yaml glob entries
// like "packages/*" or "apps/**". path.Match handles the single-level
// "*" form; a trailing "/**" is treated as "any depth under this
// prefix" since path.Match has no recursive-glob operator of its own.
func matchesAnyGlob(dir string, globs []string) bool {
	for _, g := range globs {
		if strings.HasSuffix(g, "/**") {
			prefix := strings.TrimSuffix(g, "/**")
			if dir == prefix || strings.HasPrefix(dir, prefix+"/") {
				return true
			}
			continue
		}
		if ok, _ := path.Match(g, dir); ok {
			return true
		}
	}
	return false
}
