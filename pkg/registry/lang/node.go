package lang

import (
	"encoding/json"
	"strings"

	"github.com/peelbox/peelbox/pkg/registry"
)

// Node is the registry.LanguagePlugin for JavaScript/TypeScript
// projects built around package.json.
type Node struct{}

func (Node) ID() registry.ID { return registry.LangNode }

func (Node) Extensions() []string { return []string{".js", ".mjs", ".cjs", ".ts", ".tsx"} }

func (Node) ExcludedDirs() []string { return []string{"node_modules", "dist", "build", ".turbo"} }

func (Node) WorkspaceConfigs() []string {
	return []string{"pnpm-workspace.yaml", "lerna.json", "turbo.json", "nx.json"}
}

// packageJSON mirrors only the fields the detector and dependency
// parser need; every other field of a real package.json is ignored.
type packageJSON struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Main            string            `json:"main"`
	Workspaces      json.RawMessage   `json:"workspaces"`
	Dependencies    map[string]string `json:"dependencies"`
	PackageManager  string            `json:"packageManager"`
}

// Detect picks the build system from package.json's packageManager
// field; the manifest name itself is always "package.json" across all
// three, and lockfiles are not consulted. Without a recognized
// packageManager npm is assumed. content may be nil (filename-only
// pass); in that case npm is assumed too, the most common default.
func (Node) Detect(manifestName string, content []byte) (registry.ID, float64) {
	if manifestName != "package.json" {
		return registry.ID{}, 0
	}
	if content == nil {
		return registry.BuildSystemNpm, 0.5
	}
	var pkg packageJSON
	if err := json.Unmarshal(content, &pkg); err != nil {
		return registry.BuildSystemNpm, 0.3
	}
	switch {
	case strings.HasPrefix(pkg.PackageManager, "pnpm@"):
		return registry.BuildSystemPnpm, 0.9
	case strings.HasPrefix(pkg.PackageManager, "yarn@"):
		return registry.BuildSystemYarn, 0.9
	case strings.HasPrefix(pkg.PackageManager, "npm@"):
		return registry.BuildSystemNpm, 0.9
	default:
		return registry.BuildSystemNpm, 0.6
	}
}

// ParseDependencies treats any dependency whose version string begins
// with "file:", "link:", "workspace:", or "portal:" as internal (the
// union of markers used by npm, yarn, pnpm and nx across the
// ecosystem); the rest are external semver ranges.
func (Node) ParseDependencies(content []byte, _ []string) (registry.Dependencies, error) {
	var pkg packageJSON
	if err := json.Unmarshal(content, &pkg); err != nil {
		return registry.Dependencies{}, err
	}
	deps := registry.Dependencies{DetectedBy: registry.DetectedByDeterministic}
	for name, version := range pkg.Dependencies {
		d := registry.Dep{Name: name, Version: version}
		switch {
		case strings.HasPrefix(version, "file:"):
			d.Path = strings.TrimPrefix(version, "file:")
			deps.Internal = append(deps.Internal, d)
		case strings.HasPrefix(version, "link:"):
			d.Path = strings.TrimPrefix(version, "link:")
			deps.Internal = append(deps.Internal, d)
		case strings.HasPrefix(version, "workspace:"):
			deps.Internal = append(deps.Internal, d)
		case strings.HasPrefix(version, "portal:"):
			d.Path = strings.TrimPrefix(version, "portal:")
			deps.Internal = append(deps.Internal, d)
		default:
			deps.External = append(deps.External, d)
		}
	}
	return deps, nil
}

func (Node) EnvVarPatterns() []string { return []string{"NODE_ENV", "PORT"} }

func (Node) PortPatterns() []string {
	return []string{`\.listen\((\d{2,5})`, `process\.env\.PORT\s*\|\|\s*(\d{2,5})`}
}

func (Node) HealthPatterns() []string { return []string{"/health", "/healthz", "/status"} }

func (Node) DefaultPort() uint16 { return 3000 }

func (Node) RuntimeName() registry.ID { return registry.RuntimeNode }

func (Node) DefaultEntrypoint(_ string) string { return "node index.js" }

// ParseEntrypointFromManifest returns package.json's "main" field, the
// manifest-declared entrypoint long predating any framework convention.
func (Node) ParseEntrypointFromManifest(content []byte) (string, bool) {
	var pkg packageJSON
	if err := json.Unmarshal(content, &pkg); err != nil || pkg.Main == "" {
		return "", false
	}
	return "node " + pkg.Main, true
}
