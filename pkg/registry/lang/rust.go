package lang

import (
	"strings"

	"github.com/pelletier/go-toml"

	"github.com/peelbox/peelbox/pkg/registry"
)

// Rust is the registry.LanguagePlugin for Cargo.toml projects.
type Rust struct{}

func (Rust) ID() registry.ID { return registry.LangRust }

func (Rust) Extensions() []string { return []string{".rs"} }

func (Rust) ExcludedDirs() []string { return []string{"target"} }

func (Rust) WorkspaceConfigs() []string { return []string{"Cargo.toml"} }

// Detect always reports Cargo; Rust has exactly one mainstream build
// system, so confidence is pinned high whenever the manifest parses.
func (Rust) Detect(manifestName string, content []byte) (registry.ID, float64) {
	if manifestName != "Cargo.toml" {
		return registry.ID{}, 0
	}
	if content == nil {
		return registry.BuildSystemCargo, 0.9
	}
	if _, err := toml.LoadBytes(content); err != nil {
		return registry.BuildSystemCargo, 0.3
	}
	return registry.BuildSystemCargo, 0.95
}

// ParseDependencies walks the [dependencies] table; a dependency
// declared as an inline table with a "path" key is internal (a sibling
// crate), matching Cargo's path-dependency convention.
func (Rust) ParseDependencies(content []byte, _ []string) (registry.Dependencies, error) {
	tree, err := toml.LoadBytes(content)
	if err != nil {
		return registry.Dependencies{}, err
	}
	deps := registry.Dependencies{DetectedBy: registry.DetectedByDeterministic}

	depsTable, ok := tree.Get("dependencies").(*toml.Tree)
	if !ok {
		return deps, nil
	}
	for _, name := range depsTable.Keys() {
		switch v := depsTable.Get(name).(type) {
		case string:
			deps.External = append(deps.External, registry.Dep{Name: name, Version: v})
		case *toml.Tree:
			if path, ok := v.Get("path").(string); ok {
				deps.Internal = append(deps.Internal, registry.Dep{Name: name, Path: path})
				continue
			}
			version, _ := v.Get("version").(string)
			deps.External = append(deps.External, registry.Dep{Name: name, Version: version})
		}
	}
	return deps, nil
}

func (Rust) EnvVarPatterns() []string { return []string{"RUST_LOG", "PORT"} }

func (Rust) PortPatterns() []string {
	return []string{`bind\(\s*"[^"]*:(\d{2,5})"`, `\.listen\(\s*"[^"]*:(\d{2,5})"`}
}

func (Rust) HealthPatterns() []string { return []string{"/health", "/healthz"} }

func (Rust) DefaultPort() uint16 { return 8080 }

func (Rust) RuntimeName() registry.ID { return registry.RuntimeRust }

func (Rust) DefaultEntrypoint(projectName string) string { return "/usr/local/bin/" + projectName }

// ParseEntrypointFromManifest reports the Cargo package name as the
// binary name when [[bin]] is absent (Cargo's implicit-binary rule);
// it returns a name, not an argv, so callers re-resolve the path.
func (Rust) ParseEntrypointFromManifest(content []byte) (string, bool) {
	tree, err := toml.LoadBytes(content)
	if err != nil {
		return "", false
	}
	if bins, ok := tree.Get("bin").([]*toml.Tree); ok && len(bins) > 0 {
		if name, ok := bins[0].Get("name").(string); ok {
			return name, true
		}
	}
	if name, ok := tree.Get("package.name").(string); ok && strings.TrimSpace(name) != "" {
		return name, true
	}
	return "", false
}
