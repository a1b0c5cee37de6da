// Package lang holds the concrete registry.LanguagePlugin implementations.
// Each file owns one language and only imports pkg/registry, keeping the
// dependency graph one-directional.
package lang

import (
	"strings"

	"golang.org/x/mod/modfile"

	"github.com/peelbox/peelbox/pkg/registry"
)

// Go is the registry.LanguagePlugin for Go modules.
type Go struct{}

func (Go) ID() registry.ID { return registry.LangGo }

func (Go) Extensions() []string { return []string{".go"} }

func (Go) ExcludedDirs() []string { return []string{"vendor", "bin", ".cache"} }

func (Go) WorkspaceConfigs() []string { return []string{"go.work"} }

// Detect recognizes go.mod at high confidence; it is the only manifest
// the Go toolchain ever reads for module identity.
func (Go) Detect(manifestName string, _ []byte) (registry.ID, float64) {
	if manifestName == "go.mod" {
		return registry.BuildSystemGoMod, 0.95
	}
	return registry.ID{}, 0
}

// ParseDependencies delegates to golang.org/x/mod/modfile. A direct
// require is internal when a `replace` directive points its module
// path at a local path (one starting with "." or "/"); internalPaths
// is not consulted. Indirect requires are skipped.
func (Go) ParseDependencies(content []byte, internalPaths []string) (registry.Dependencies, error) {
	f, err := modfile.Parse("go.mod", content, nil)
	if err != nil {
		return registry.Dependencies{}, err
	}

	replaced := make(map[string]string, len(f.Replace))
	for _, r := range f.Replace {
		if strings.HasPrefix(r.New.Path, ".") || strings.HasPrefix(r.New.Path, "/") {
			replaced[r.Old.Path] = r.New.Path
		}
	}

	deps := registry.Dependencies{DetectedBy: registry.DetectedByDeterministic}
	for _, req := range f.Require {
		if req.Indirect {
			continue
		}
		if localPath, ok := replaced[req.Mod.Path]; ok {
			deps.Internal = append(deps.Internal, registry.Dep{
				Name: req.Mod.Path, Version: req.Mod.Version, Path: localPath,
			})
			continue
		}
		deps.External = append(deps.External, registry.Dep{
			Name: req.Mod.Path, Version: req.Mod.Version,
		})
	}
	return deps, nil
}

func (Go) EnvVarPatterns() []string { return []string{"GO_ENV", "GOFLAGS"} }

func (Go) PortPatterns() []string {
	return []string{`:(\d{2,5})"`, `Addr:\s*":(\d{2,5})"`, `ListenAndServe\(":(\d{2,5})"`}
}

func (Go) HealthPatterns() []string { return []string{`/healthz`, `/health`, `/livez`, `/readyz`} }

func (Go) DefaultPort() uint16 { return 8080 }

func (Go) RuntimeName() registry.ID { return registry.RuntimeGo }

func (Go) DefaultEntrypoint(projectName string) string { return "/usr/local/bin/" + projectName }

// ParseEntrypointFromManifest never finds an entrypoint in go.mod
// itself; Go locates its main package by directory convention, not by
// manifest declaration, so the entrypoint comes from DefaultEntrypoint
// (spec.md §3's EntrypointSource split).
func (Go) ParseEntrypointFromManifest([]byte) (string, bool) { return "", false }
