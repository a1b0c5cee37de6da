// Package depgraph implements the Dependency Parser (spec.md §4.D5)
// and the Build-Order Resolver (spec.md §4.D6): per-manifest
// dependency extraction, and the topological sort over the resulting
// internal-dependency graph.
package depgraph

import (
	"context"
	"os"
	"path/filepath"

	"github.com/peelbox/peelbox/pkg/llm"
	"github.com/peelbox/peelbox/pkg/registry"
)

// ParseAll reads every package's manifest and delegates to its
// language plugin's ParseDependencies, falling back to client when a
// plugin cannot produce an answer deterministically (spec.md §4.D5).
// repoRoot is used to resolve each package's manifest path to content
// on disk.
func ParseAll(ctx context.Context, reg *registry.Registry, repoRoot string, packages []registry.Package, languageOf func(registry.Package) registry.ID, client llm.Client) (map[string]registry.Dependencies, error) {
	out := make(map[string]registry.Dependencies, len(packages))
	internalPaths := make([]string, len(packages))
	for i, p := range packages {
		internalPaths[i] = p.Path
	}

	for _, p := range packages {
		content, err := os.ReadFile(filepath.Join(repoRoot, p.Manifest.Path))
		if err != nil {
			out[p.Path] = registry.Dependencies{DetectedBy: registry.DetectedByDeterministic}
			continue
		}
		langID := languageOf(p)
		lang, err := reg.GetLanguage(langID)
		if err != nil {
			out[p.Path] = registry.Dependencies{DetectedBy: registry.DetectedByDeterministic}
			continue
		}
		deps, err := lang.ParseDependencies(content, internalPaths)
		if err != nil && client != nil {
			deps = fallbackToLLM(ctx, client, p, content, internalPaths)
		}
		out[p.Path] = deps
	}
	return out, nil
}

func fallbackToLLM(ctx context.Context, client llm.Client, p registry.Package, content []byte, internalPaths []string) registry.Dependencies {
	resp, err := client.ExtractDependencies(ctx, llm.DependencyRequest{
		ManifestPath:  p.Manifest.Path,
		Content:       content,
		InternalPaths: internalPaths,
	})
	if err != nil {
		return registry.Dependencies{DetectedBy: registry.DetectedByLLM}
	}
	deps := registry.Dependencies{DetectedBy: registry.DetectedByLLM}
	for _, d := range resp.Internal {
		deps.Internal = append(deps.Internal, registry.Dep{Name: d.Name, Version: d.Version, Path: d.Path})
	}
	for _, d := range resp.External {
		deps.External = append(deps.External, registry.Dep{Name: d.Name, Version: d.Version})
	}
	return deps
}
