// Package structure implements Structure (spec.md §4.D4): identifies
// the workspace orchestrator, if any, and collates detected manifests
// into a workspace model.
package structure

import (
	"path"

	"github.com/peelbox/peelbox/pkg/registry"
)

// Resolve tries every registered orchestrator in ascending Priority
// order; the first to report a WorkspaceStructure wins (spec.md
// §4.D4). If none match, every DetectionStack becomes an independent
// package (spec.md §3 WorkspaceStructure: "If no workspace
// orchestrator is detected the package list falls back to every
// DetectionStack").
func Resolve(reg *registry.Registry, fileTree []string, fs registry.ReadFS, detections []registry.DetectionStack) (registry.WorkspaceStructure, error) {
	for _, orch := range reg.Orchestrators() {
		ws, err := orch.Detect(fileTree, fs)
		if err != nil {
			return registry.WorkspaceStructure{}, err
		}
		if ws != nil {
			return *ws, nil
		}
	}
	return fallback(detections), nil
}

func fallback(detections []registry.DetectionStack) registry.WorkspaceStructure {
	ws := registry.WorkspaceStructure{}
	for _, d := range detections {
		ws.Packages = append(ws.Packages, registry.Package{
			Path:     path.Dir(d.ManifestPath),
			Manifest: registry.Manifest{Path: d.ManifestPath, Basename: path.Base(d.ManifestPath)},
		})
	}
	return ws
}
