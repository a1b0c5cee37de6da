// Package rootcache implements the Root-Cache Resolver (spec.md
// §4.D7): the workspace-level cache directories every service in a
// monorepo shares, derived from the workspace-root build systems and
// the orchestrator itself.
package rootcache

import (
	"sort"

	"github.com/peelbox/peelbox/pkg/registry"
)

// Resolve returns the deduplicated, sorted union of every
// workspace-root build system's declared cache dirs plus the
// orchestrator's own cache dirs (spec.md §4.D7). rootBuildSystems is
// the set of build-system ids whose DetectionStack had
// IsWorkspaceRoot set; ws.Orchestrator is the zero ID when no
// orchestrator was detected, in which case only rootBuildSystems
// contribute.
func Resolve(reg *registry.Registry, rootBuildSystems []registry.ID, ws registry.WorkspaceStructure) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(dirs []string) {
		for _, d := range dirs {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			out = append(out, d)
		}
	}

	for _, id := range rootBuildSystems {
		bs, err := reg.GetBuildSystem(id)
		if err != nil {
			continue
		}
		add(bs.CacheDirs())
	}
	if !ws.Orchestrator.IsZero() {
		if orch, err := reg.GetOrchestrator(ws.Orchestrator); err == nil {
			add(orch.CacheDirs())
		}
	}

	sort.Strings(out)
	return out
}
